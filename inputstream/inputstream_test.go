package inputstream_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/havenwisp/htmlspan/inputstream"
)

func TestResolveSurfacesDecodeFaultOnCertainEncoding(t *testing.T) {
	data := []byte{0x80, 'h', 'i'}
	res, err := inputstream.Resolve(data, inputstream.Options{Override: "utf-8"})
	require.ErrorIs(t, err, inputstream.ErrDecodeFault)
	assert.Equal(t, inputstream.Certain, res.Confidence)
	require.Len(t, res.Errors, 1)
	assert.Equal(t, 0, res.Errors[0].Offset)
}

func TestResolveBOMWinsOverEverything(t *testing.T) {
	data := append([]byte{0xEF, 0xBB, 0xBF}, []byte("<html></html>")...)
	res, err := inputstream.Resolve(data, inputstream.Options{Override: "windows-1252"})
	require.NoError(t, err)
	assert.Equal(t, "UTF-8", res.Encoding.Name)
	assert.Equal(t, inputstream.Certain, res.Confidence)
	assert.Equal(t, "<html></html>", res.Text)
}

func TestResolveOverrideBeatsTransportAndMeta(t *testing.T) {
	data := []byte(`<meta charset="iso-8859-2">hi`)
	res, err := inputstream.Resolve(data, inputstream.Options{
		Override:  "utf-8",
		Transport: "windows-1252",
	})
	require.NoError(t, err)
	assert.Equal(t, "UTF-8", res.Encoding.Name)
	assert.Equal(t, inputstream.Certain, res.Confidence)
}

func TestResolveMetaPrescanIsTentative(t *testing.T) {
	data := []byte(`<meta charset="utf-8">hi`)
	res, err := inputstream.Resolve(data, inputstream.Options{})
	require.NoError(t, err)
	assert.Equal(t, "UTF-8", res.Encoding.Name)
	assert.Equal(t, inputstream.Tentative, res.Confidence)
}

func TestResolveSameOriginParentRejectsUTF16(t *testing.T) {
	res, err := inputstream.Resolve([]byte("plain text"), inputstream.Options{
		SameOriginParentEncoding: "utf-16le",
		Default:                  "windows-1252",
	})
	require.NoError(t, err)
	assert.Equal(t, "windows-1252", res.Encoding.Name)
}

func TestResolveDefaultsToWindows1252(t *testing.T) {
	res, err := inputstream.Resolve([]byte("plain text"), inputstream.Options{})
	require.NoError(t, err)
	assert.Equal(t, "windows-1252", res.Encoding.Name)
	assert.Equal(t, inputstream.Tentative, res.Confidence)
}

func TestCheckReparse(t *testing.T) {
	res, err := inputstream.Resolve([]byte("plain text"), inputstream.Options{})
	require.NoError(t, err)

	assert.Nil(t, inputstream.CheckReparse(res, "windows-1252"))

	reparse := inputstream.CheckReparse(res, "utf-8")
	require.NotNil(t, reparse)
	assert.Equal(t, "UTF-8", reparse.Encoding.Name)

	res.Confidence = inputstream.Certain
	assert.Nil(t, inputstream.CheckReparse(res, "utf-8"))
}

func TestStreamCharAndPosition(t *testing.T) {
	s := inputstream.NewStreamFromRaw("ab\r\ncd\re")
	var out []rune
	for {
		c := s.Char()
		if c == inputstream.EOF {
			break
		}
		out = append(out, c)
	}
	assert.Equal(t, "ab\ncd\ne", string(out))
}

func TestStreamUnget(t *testing.T) {
	s := inputstream.NewStream("xyz")
	assert.Equal(t, 'x', s.Char())
	s.Unget('x')
	assert.Equal(t, 'x', s.Char())
	assert.Equal(t, 'y', s.Char())
}

func TestStreamCharsUntil(t *testing.T) {
	s := inputstream.NewStream("abc<def")
	isLT := func(c rune) bool { return c == '<' }
	got := s.CharsUntil(isLT, false)
	assert.Equal(t, "abc", got)
	assert.Equal(t, '<', s.Char())
}
