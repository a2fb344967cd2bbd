package signature

import (
	"bytes"
	"encoding/base64"
	"image/png"
	"strings"
	"testing"

	"github.com/disintegration/imaging"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewPad_IsBlank(t *testing.T) {
	pad := NewPad()

	assert.True(t, pad.Blank())
}

func TestStroke_MakesPadNonBlank(t *testing.T) {
	pad := NewPad()

	pad.Stroke([]Point{{X: 20, Y: 20}, {X: 100, Y: 80}}, Width, Height)

	assert.False(t, pad.Blank())
}

func TestStroke_ScalesDeviceCoordinates(t *testing.T) {
	// The same gesture drawn on a double-size surface must land on the same
	// pad pixels as on a native-size surface.
	native := NewPad()
	native.Stroke([]Point{{X: 50, Y: 30}, {X: 200, Y: 100}}, Width, Height)

	scaled := NewPad()
	scaled.Stroke([]Point{{X: 100, Y: 60}, {X: 400, Y: 200}}, Width*2, Height*2)

	assert.Equal(t, native.img.Pix, scaled.img.Pix)
}

func TestStroke_EmptyAndDegenerateInput(t *testing.T) {
	pad := NewPad()

	pad.Stroke(nil, Width, Height)
	assert.True(t, pad.Blank())

	pad.Stroke([]Point{{X: 10, Y: 10}}, 0, 0)
	assert.True(t, pad.Blank())
}

func TestClear_RestoresBlankness(t *testing.T) {
	pad := NewPad()
	pad.Stroke([]Point{{X: 20, Y: 20}, {X: 60, Y: 60}}, Width, Height)
	require.False(t, pad.Blank())

	pad.Clear()

	assert.True(t, pad.Blank())
}

func TestDataURL_RoundTrip(t *testing.T) {
	pad := NewPad()
	pad.Stroke([]Point{{X: 20, Y: 20}, {X: 120, Y: 90}}, Width, Height)

	url, err := pad.DataURL()
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(url, "data:image/png;base64,"))

	decoded, err := Decode(url)
	require.NoError(t, err)
	assert.False(t, decoded.Blank())
	assert.Equal(t, pad.img.Pix, decoded.img.Pix)
}

func TestDecode_NormalizesResolution(t *testing.T) {
	// Build an 800x300 image entirely in the background color, then ink a
	// patch. After the resize to 400x150 the patch must survive.
	big := imaging.New(800, 300, Background)
	for y := 100; y < 140; y++ {
		for x := 200; x < 300; x++ {
			big.Set(x, y, ink)
		}
	}
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, big))
	url := "data:image/png;base64," + base64.StdEncoding.EncodeToString(buf.Bytes())

	pad, err := Decode(url)
	require.NoError(t, err)

	bounds := pad.img.Bounds()
	assert.Equal(t, Width, bounds.Dx())
	assert.Equal(t, Height, bounds.Dy())
	assert.False(t, pad.Blank())
}

func TestDecode_RejectsNonDataURL(t *testing.T) {
	_, err := Decode("https://example.com/signature.png")
	require.Error(t, err)

	_, err = Decode("data:image/png;base64,not-base64!!!")
	require.Error(t, err)
}

func TestBlankDataURL(t *testing.T) {
	pad := NewPad()
	blankURL, err := pad.DataURL()
	require.NoError(t, err)
	assert.True(t, BlankDataURL(blankURL))

	pad.Stroke([]Point{{X: 30, Y: 30}, {X: 90, Y: 40}}, Width, Height)
	inkedURL, err := pad.DataURL()
	require.NoError(t, err)
	assert.False(t, BlankDataURL(inkedURL))

	assert.True(t, BlankDataURL(""))
	assert.True(t, BlankDataURL("   "))
	assert.True(t, BlankDataURL("garbage"))
}
