// Copyright (c) 2026 The AvN Project developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package stackedmap_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AventusProtocolFoundation/avn-parachain-sub000/stackedmap"
)

func TestStackedMap(t *testing.T) {
	src := map[string]string{"foo": "bar"}
	sm := stackedmap.New(func(key any) (any, bool, error) {
		v, ok := src[key.(string)]
		return v, ok, nil
	})

	// level 0 sees the source
	sm.Push()
	v, ok, err := sm.Get("foo")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "bar", v)

	// a put shadows the source, a deeper put shadows the shallower one
	sm.Put("foo", "baz")
	sm.Push()
	sm.Put("foo", "qux")
	assert.Equal(t, 2, sm.Depth())

	v, _, err = sm.Get("foo")
	require.NoError(t, err)
	assert.Equal(t, "qux", v)

	// popping reverts to the previous revision
	sm.Pop()
	v, _, err = sm.Get("foo")
	require.NoError(t, err)
	assert.Equal(t, "baz", v)

	sm.Pop()
	v, _, err = sm.Get("foo")
	require.NoError(t, err)
	assert.Equal(t, "bar", v)

	_, ok, err = sm.Get("missing")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestPopTo(t *testing.T) {
	sm := stackedmap.New(func(any) (any, bool, error) {
		return nil, false, nil
	})

	depth := sm.Push()
	assert.Equal(t, 0, depth)
	sm.Push()
	sm.Push()
	assert.Equal(t, 3, sm.Depth())

	sm.PopTo(depth)
	assert.Equal(t, 0, sm.Depth())
}

func TestJournal(t *testing.T) {
	sm := stackedmap.New(func(any) (any, bool, error) {
		return nil, false, nil
	})

	puts := []struct{ k, v string }{
		{"a", "1"},
		{"a", "2"},
		{"b", "3"},
	}
	for _, p := range puts {
		sm.Push()
		sm.Put(p.k, p.v)
	}

	var seen []string
	sm.Journal(func(k, v any) bool {
		seen = append(seen, k.(string)+v.(string))
		return true
	})
	assert.Equal(t, []string{"a1", "a2", "b3"}, seen)

	// traversal stops when the callback declines
	count := 0
	sm.Journal(func(_, _ any) bool {
		count++
		return false
	})
	assert.Equal(t, 1, count)
}
