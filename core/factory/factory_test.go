package factory

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type widget struct {
	Size int `json:"size"`
}

func TestRegistryCreate(t *testing.T) {
	reg := NewRegistry[*widget]()
	require.NoError(t, reg.Register("widget", func(conf map[string]any) (*widget, error) {
		var w widget
		if err := Decode(conf, &w); err != nil {
			return nil, err
		}
		return &w, nil
	}))

	w, err := reg.Create(ModuleConfig{Type: "widget", Conf: map[string]any{"size": 3}})
	require.NoError(t, err)
	assert.Equal(t, 3, w.Size)
}

func TestRegistryUnknownType(t *testing.T) {
	reg := NewRegistry[*widget]()
	if _, err := reg.Create(ModuleConfig{Type: "missing"}); err == nil {
		t.Fatalf("expected error for unknown type")
	}
}

func TestRegistryDuplicate(t *testing.T) {
	reg := NewRegistry[*widget]()
	f := func(map[string]any) (*widget, error) { return &widget{}, nil }
	require.NoError(t, reg.Register("widget", f))
	assert.Error(t, reg.Register("widget", f))
	assert.Error(t, reg.Register("nil", nil))
}
