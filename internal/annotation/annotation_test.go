package annotation

import (
	"encoding/json"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/janelia-flyem/marktips/internal/geom"
)

const authorship = "placed by marktips"

func TestIsTipMarker(t *testing.T) {
	tests := []struct {
		name string
		ann  Annotation
		want bool
	}{
		{
			name: "action property",
			ann:  Annotation{Prop: map[string]string{PropAction: "tip detector"}},
			want: true,
		},
		{
			name: "legacy comment without action",
			ann:  Annotation{Prop: map[string]string{PropComment: "placed by marktips.py v0.1.2"}},
			want: true,
		},
		{
			name: "other action",
			ann:  Annotation{Prop: map[string]string{PropAction: "split", PropComment: "fix me"}},
			want: false,
		},
		{
			name: "no properties",
			ann:  Annotation{Kind: "Note"},
			want: false,
		},
		{
			name: "action case differs",
			ann:  Annotation{Prop: map[string]string{PropAction: "Tip Detector"}},
			want: false,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, IsTipMarker(tt.ann, authorship))
		})
	}
}

func TestIsTipMarker_EmptyAuthorshipIgnoresComment(t *testing.T) {
	a := Annotation{Prop: map[string]string{PropComment: "anything"}}
	assert.False(t, IsTipMarker(a, ""))
}

func TestNewTipMarker_WireShape(t *testing.T) {
	ann := NewTipMarker(geom.Pt(1, 2, 3), "reviewer", "placed by marktips v1.0.0", `{"body ID":"42"}`)

	data, err := json.Marshal(ann)
	require.NoError(t, err)
	assert.JSONEq(t, `{
		"Kind": "Note",
		"Pos": [1, 2, 3],
		"Prop": {
			"comment": "placed by marktips v1.0.0",
			"user": "reviewer",
			"checked": "0",
			"action": "tip detector",
			"run parameters": "{\"body ID\":\"42\"}"
		},
		"Tags": ["action:tip_detector"]
	}`, string(data))

	assert.True(t, IsTipMarker(ann, authorship))
}

func TestNewTipMarker_OmitsEmptyRunParameters(t *testing.T) {
	ann := NewTipMarker(geom.Pt(0, 0, 0), "u", "c", "")
	_, ok := ann.Prop[PropRunParameters]
	assert.False(t, ok)
}

func TestAnnotation_DecodeDVIDElement(t *testing.T) {
	body := `[{"Pos":[5,6,7],"Kind":"Note","Tags":["x"],"Prop":{"comment":"check this","user":"bob"},"Rels":[]}]`
	var got []Annotation
	require.NoError(t, json.Unmarshal([]byte(body), &got))

	want := []Annotation{{
		Pos:  geom.Pt(5, 6, 7),
		Kind: "Note",
		Prop: map[string]string{"comment": "check this", "user": "bob"},
		Tags: []string{"x"},
	}}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("decoded annotations mismatch (-want +got):\n%s", diff)
	}
}

func TestIndex_Occupant(t *testing.T) {
	tip := NewTipMarker(geom.Pt(1, 1, 1), "u", "c", "")
	other := Annotation{Pos: geom.Pt(2, 2, 2), Kind: "Note", Prop: map[string]string{PropComment: "merge?"}}

	idx := NewIndex([]Annotation{tip, other}, authorship)

	assert.Equal(t, 2, idx.Len())
	assert.Equal(t, TipMarker, idx.Occupant(geom.Pt(1, 1, 1)))
	assert.Equal(t, Foreign, idx.Occupant(geom.Pt(2, 2, 2)))
	assert.Equal(t, Free, idx.Occupant(geom.Pt(3, 3, 3)))
}

func TestIndex_TipMarkerWinsSharedPosition(t *testing.T) {
	p := geom.Pt(9, 9, 9)
	other := Annotation{Pos: p, Kind: "Note", Prop: map[string]string{PropComment: "first"}}
	tip := NewTipMarker(p, "u", "c", "")
	later := Annotation{Pos: p, Kind: "Note", Prop: map[string]string{PropComment: "third"}}

	idx := NewIndex([]Annotation{other, tip, later}, authorship)
	assert.Equal(t, TipMarker, idx.Occupant(p))

	idx = NewIndex([]Annotation{other, later}, authorship)
	got, ok := idx.Lookup(p)
	require.True(t, ok)
	assert.Equal(t, "first", got.Prop[PropComment])
}

func TestOccupancy_String(t *testing.T) {
	assert.Equal(t, "free", Free.String())
	assert.Equal(t, "tip marker", TipMarker.String())
	assert.Equal(t, "foreign", Foreign.String())
	assert.Equal(t, "unknown", Occupancy(7).String())
}
