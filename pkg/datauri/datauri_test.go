package datauri

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEncodeDecode(t *testing.T) {
	uri := Encode("image/jpeg", []byte("jpeg-bytes"))
	assert.Equal(t, "data:image/jpeg;base64,anBlZy1ieXRlcw==", uri)

	mimeType, data, err := Decode(uri)
	require.NoError(t, err)
	assert.Equal(t, "image/jpeg", mimeType)
	assert.Equal(t, []byte("jpeg-bytes"), data)
}

func TestDecode_Rejects(t *testing.T) {
	for _, in := range []string{
		"https://example.com/a.jpg",
		"data:image/jpeg,plain",
		"data:image/jpeg;base64",
	} {
		_, _, err := Decode(in)
		assert.ErrorIs(t, err, ErrNotDataURI, in)
	}

	_, _, err := Decode("data:image/jpeg;base64,!!!")
	assert.Error(t, err)
}
