package utils

import (
	"errors"
	"io"
)

func ReadToEnd(r io.Reader) ([]byte, error) {
	buffer := make([]byte, 1024*8)
	result := []byte{}
	for {
		numRead, err := r.Read(buffer)
		result = append(result, buffer[:numRead]...)
		if err != nil && errors.Is(err, io.EOF) {
			return result, nil
		} else if err != nil {
			return nil, err
		}
	}
}
