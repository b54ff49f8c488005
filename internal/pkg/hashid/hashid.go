// Package hashid encodes numeric database IDs as short opaque strings
// for use in URLs, so sequential IDs are never exposed directly.
package hashid

import (
	"errors"
	"fmt"

	"github.com/speps/go-hashids/v2"
)

var ErrInvalidID = errors.New("invalid id")

type Codec struct {
	h *hashids.HashID
}

func NewCodec(salt string) (*Codec, error) {
	h, err := hashids.NewWithData(&hashids.HashIDData{
		Alphabet:  hashids.DefaultAlphabet,
		Salt:      salt,
		MinLength: 4,
	})
	if err != nil {
		return nil, fmt.Errorf("hashids.NewWithData -> %w", err)
	}

	return &Codec{h: h}, nil
}

func (c *Codec) Encode(id uint) string {
	// Encoding a non-negative int cannot fail with the default
	// alphabet.
	encoded, _ := c.h.Encode([]int{int(id)})
	return encoded
}

func (c *Codec) Decode(encoded string) (uint, error) {
	ids, err := c.h.DecodeWithError(encoded)
	if err != nil || len(ids) != 1 || ids[0] < 0 {
		return 0, ErrInvalidID
	}

	return uint(ids[0]), nil
}
