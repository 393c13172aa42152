package exiftool

import (
	"bytes"
	"context"
	"errors"
	"image"
	"image/jpeg"
	"os"
	"os/exec"
	"path/filepath"
	"testing"
	"time"

	goexiftool "github.com/barasher/go-exiftool"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/backmassage/photostamp/internal/probe"
	"github.com/backmassage/photostamp/internal/sidecar"
)

func TestTags_TimeOnly(t *testing.T) {
	ts := time.Date(2019, 6, 8, 12, 33, 20, 0, time.FixedZone("CEST", 2*3600))
	fm := Tags("IMG.jpg", ts, nil)

	assert.Equal(t, "IMG.jpg", fm.File)
	assert.Equal(t, "2019:06:08 12:33:20", fm.Fields["DateTimeOriginal"])
	assert.Equal(t, "2019:06:08 12:33:20", fm.Fields["CreateDate"])
	assert.Equal(t, "+02:00", fm.Fields["OffsetTimeOriginal"])
	assert.NotContains(t, fm.Fields, "GPSLatitude")
}

func TestTags_GPSHemispheres(t *testing.T) {
	gps := &sidecar.Coordinate{Latitude: -33.8568, Longitude: -151.2153, Altitude: -4}
	fm := Tags("IMG.jpg", time.Unix(0, 0).UTC(), gps)

	assert.Equal(t, 33.8568, fm.Fields["GPSLatitude"])
	assert.Equal(t, "South", fm.Fields["GPSLatitudeRef"])
	assert.Equal(t, 151.2153, fm.Fields["GPSLongitude"])
	assert.Equal(t, "West", fm.Fields["GPSLongitudeRef"])
	assert.Equal(t, 4.0, fm.Fields["GPSAltitude"])
	assert.Equal(t, "Below Sea Level", fm.Fields["GPSAltitudeRef"])

	fm = Tags("IMG.jpg", time.Unix(0, 0).UTC(), &sidecar.Coordinate{Latitude: 1, Longitude: 2})
	assert.Equal(t, "North", fm.Fields["GPSLatitudeRef"])
	assert.Equal(t, "East", fm.Fields["GPSLongitudeRef"])
	assert.NotContains(t, fm.Fields, "GPSAltitude")
}

func TestClassify(t *testing.T) {
	tests := []struct {
		msg  string
		want Reason
	}{
		{"Error opening file - /x/IMG.jpg", ReasonPermission},
		{"Error renaming temporary file to /x/IMG.jpg", ReasonPermission},
		{"Permission denied", ReasonPermission},
		{"Can't currently write GIF files", ReasonUnsupported},
		{"Writing of BMP files is not supported", ReasonUnsupported},
		{"Unknown file type", ReasonUnsupported},
		{"File format error", ReasonUnsupported},
		{"Not a valid JPEG (looks more like a PNG)", ReasonCorrupt},
		{"Corrupted JPEG image", ReasonCorrupt},
		{"something else entirely", ReasonOther},
	}
	for _, tt := range tests {
		t.Run(tt.msg, func(t *testing.T) {
			assert.Equal(t, tt.want, Classify(tt.msg))
		})
	}
}

func TestWriteError(t *testing.T) {
	inner := errors.New("Not a valid JPEG")
	err := error(&WriteError{Path: "a.jpg", Reason: ReasonCorrupt, Err: inner})
	assert.ErrorIs(t, err, inner)
	assert.Contains(t, err.Error(), "corrupt file")
}

func TestPool_MissingBinary(t *testing.T) {
	p := NewPool(filepath.Join(t.TempDir(), "no-exiftool"), 1)
	defer p.Close()

	err := p.Write(context.Background(), "IMG.jpg", time.Now(), nil)
	assert.ErrorIs(t, err, ErrUnavailable)
}

func TestPool_CancelledWhileWaiting(t *testing.T) {
	p := NewPool("", 1)
	p.sem <- struct{}{} // occupy the only slot
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := p.Write(ctx, "IMG.jpg", time.Now(), nil)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestIsTransportError(t *testing.T) {
	tests := []struct {
		err  error
		want bool
	}{
		{errors.New("error while reading stdMergedOut: EOF"), true},
		{errors.New("nothing on stdMergedOut"), true},
		{errors.New("exiftool: buffer too small"), true},
		{errors.New("write |1: broken pipe"), true},
		{errors.New("Not a valid JPEG"), false},
		{nil, false},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, IsTransportError(tt.err), "%v", tt.err)
	}
}

func TestPool_ReleaseDropsBrokenProcess(t *testing.T) {
	p := NewPool("", 2)
	var stopped []*goexiftool.Exiftool
	p.stop = func(et *goexiftool.Exiftool) error {
		stopped = append(stopped, et)
		return nil
	}
	good, bad := &goexiftool.Exiftool{}, &goexiftool.Exiftool{}
	p.all = []*goexiftool.Exiftool{good, bad}

	p.release(good, false)
	p.release(bad, true)

	require.Len(t, p.idle, 1)
	assert.Same(t, good, p.idle[0])
	require.Len(t, p.all, 1)
	assert.Same(t, good, p.all[0])
	require.Len(t, stopped, 1)
	assert.Same(t, bad, stopped[0])

	require.NoError(t, p.Close())
	require.Len(t, stopped, 2)
	assert.Same(t, good, stopped[1])
}

// --- Integration tests (require exiftool on PATH) ---

func requireExiftool(t *testing.T) {
	t.Helper()
	if _, err := exec.LookPath("exiftool"); err != nil {
		t.Skip("exiftool not on PATH")
	}
}

func writeJPEG(t *testing.T, dir, name string) string {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, jpeg.Encode(&buf, image.NewRGBA(image.Rect(0, 0, 8, 8)), nil))
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, buf.Bytes(), 0o644))
	return path
}

func TestPool_WriteRoundTrip(t *testing.T) {
	requireExiftool(t)
	path := writeJPEG(t, t.TempDir(), "IMG_0001.jpg")

	p := NewPool("", 2)
	defer p.Close()

	ts := time.Date(2019, 6, 8, 10, 33, 20, 0, time.UTC)
	gps := &sidecar.Coordinate{Latitude: 48.8584, Longitude: -2.2945}
	require.NoError(t, p.Write(context.Background(), path, ts, gps))

	emb, err := probe.Probe(path)
	require.NoError(t, err)
	assert.True(t, emb.HasTime(ts))
	assert.True(t, emb.HasPosition(gps.Latitude, gps.Longitude))

	_, err = os.Stat(path + "_original")
	assert.True(t, os.IsNotExist(err), "original is overwritten in place")
}

func TestPool_WriteCorrupt(t *testing.T) {
	requireExiftool(t)
	path := filepath.Join(t.TempDir(), "broken.jpg")
	require.NoError(t, os.WriteFile(path, []byte("not really a jpeg"), 0o644))

	p := NewPool("", 1)
	defer p.Close()

	err := p.Write(context.Background(), path, time.Now(), nil)
	var we *WriteError
	require.ErrorAs(t, err, &we)
	assert.NotEqual(t, ReasonPermission, we.Reason)
}
