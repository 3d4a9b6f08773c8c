package report

import (
	"bytes"
	"encoding/json"
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/janelia-flyem/marktips/internal/config"
	"github.com/janelia-flyem/marktips/internal/geom"
)

func params() config.Parameters {
	return config.Parameters{Server: "http://dvid", UUID: "abc", Body: "1001", Time: "2025-01-02T03:04:05Z", Version: "1.0.0"}
}

func TestBuilder_Success(t *testing.T) {
	b := NewBuilder(params(), "1.0.0")
	b.Found(5, []geom.Point{geom.Pt(1, 2, 3), geom.Pt(4, 5, 6)}, 1.5)
	b.Placed(2, 0.25)
	r := b.Result()

	assert.True(t, r.Status)
	assert.Equal(t, 5, r.NLocations)
	assert.Equal(t, 2, r.NLocationsRoI)
	assert.Equal(t, 2, r.NPlaced)
	assert.Equal(t, 1.75, r.TTotal)
	assert.Equal(t, "2 tips found in 1.5s; 2 to do items placed in 0.25s", r.Message)
	assert.False(t, r.DryRun)
}

func TestBuilder_Modes(t *testing.T) {
	p := params()
	p.DryRun = true
	b := NewBuilder(p, "1.0.0")
	b.Found(1, []geom.Point{geom.Pt(1, 1, 1)}, 2)
	b.Placed(1, 0.5)
	assert.Equal(t, "1 tips found in 2s; 1 to do items placed in 0.5s (dry run, nothing posted)", b.Result().Message)

	p = params()
	p.FindOnly = true
	b = NewBuilder(p, "1.0.0")
	b.Found(3, []geom.Point{geom.Pt(1, 1, 1)}, 0.125)
	r := b.Result()
	assert.Equal(t, "1 tips found in 0.125s (find only)", r.Message)
	assert.Zero(t, r.TPlace)
}

func TestWrite_SuccessShape(t *testing.T) {
	p := params()
	p.DryRun = true
	b := NewBuilder(p, "1.0.0")
	b.Found(1, []geom.Point{geom.Pt(7, 8, 9)}, 1)
	b.Placed(0, 0)

	var buf bytes.Buffer
	require.NoError(t, Write(&buf, b.Result()))

	var got map[string]interface{}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &got))
	for _, key := range []string{"status", "message", "version", "tfind", "tplace", "ttotal", "nlocations", "nlocationsRoI", "nplaced", "locations", "parameters", "dryrun"} {
		assert.Contains(t, got, key)
	}
	assert.NotContains(t, got, "FindOnly")
	if diff := cmp.Diff([]interface{}{[]interface{}{7.0, 8.0, 9.0}}, got["locations"]); diff != "" {
		t.Errorf("locations mismatch (-want +got):\n%s", diff)
	}
}

func TestWrite_EmptyLocationsIsArray(t *testing.T) {
	b := NewBuilder(params(), "1.0.0")
	b.Found(0, nil, 0)
	var buf bytes.Buffer
	require.NoError(t, Write(&buf, b.Result()))
	assert.Contains(t, buf.String(), `"locations":[]`)
	assert.NotContains(t, buf.String(), "dryrun")
}

func TestFailure(t *testing.T) {
	f := NewFailure(errors.New("to do placement failed!"), "1.0.0")
	var buf bytes.Buffer
	require.NoError(t, Write(&buf, f))
	assert.JSONEq(t, `{"status":false,"message":"to do placement failed!","version":"1.0.0"}`, buf.String())

	assert.Equal(t, "unknown error", NewFailure(nil, "1.0.0").Message)
}
