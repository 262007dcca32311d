package store

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yiliangbetter/hdmap/model"
)

func TestAddAndLookup(t *testing.T) {
	s := New()

	s.AddLane(&model.Lane{ID: 100})
	s.AddTrafficLight(&model.TrafficLight{ID: 200})
	s.AddTrafficSign(&model.TrafficSign{ID: 300})

	lane, ok := s.Lane(100)
	require.True(t, ok)
	assert.Equal(t, uint64(100), lane.ID)

	light, ok := s.TrafficLight(200)
	require.True(t, ok)
	assert.Equal(t, uint64(200), light.ID)

	sign, ok := s.TrafficSign(300)
	require.True(t, ok)
	assert.Equal(t, uint64(300), sign.ID)

	_, ok = s.Lane(999)
	assert.False(t, ok)
	_, ok = s.TrafficLight(999)
	assert.False(t, ok)
	_, ok = s.TrafficSign(999)
	assert.False(t, ok)

	assert.Equal(t, 1, s.LaneCount())
	assert.Equal(t, 1, s.TrafficLightCount())
	assert.Equal(t, 1, s.TrafficSignCount())
}

func TestIterationOrderIsInsertionOrder(t *testing.T) {
	s := New()
	ids := []uint64{42, 7, 99, 1, 63}
	for _, id := range ids {
		s.AddLane(&model.Lane{ID: id})
	}

	var got []uint64
	s.ForEachLane(func(l *model.Lane) {
		got = append(got, l.ID)
	})
	assert.Equal(t, ids, got)
}

func TestReplaceKeepsOrderAndCount(t *testing.T) {
	s := New()
	s.AddLane(&model.Lane{ID: 1, Type: model.LaneTypeDriving})
	s.AddLane(&model.Lane{ID: 2, Type: model.LaneTypeDriving})
	s.AddLane(&model.Lane{ID: 1, Type: model.LaneTypeSidewalk})

	assert.Equal(t, 2, s.LaneCount())

	var got []uint64
	s.ForEachLane(func(l *model.Lane) { got = append(got, l.ID) })
	assert.Equal(t, []uint64{1, 2}, got)

	lane, _ := s.Lane(1)
	assert.Equal(t, model.LaneTypeSidewalk, lane.Type)

	// The type sets follow the replacement.
	assert.False(t, s.LaneTypeSet(model.LaneTypeDriving).Contains(1))
	assert.True(t, s.LaneTypeSet(model.LaneTypeSidewalk).Contains(1))
}

func TestLaneTypeSet(t *testing.T) {
	s := New()
	s.AddLane(&model.Lane{ID: 1, Type: model.LaneTypeDriving})
	s.AddLane(&model.Lane{ID: 2, Type: model.LaneTypeBike})
	s.AddLane(&model.Lane{ID: 3, Type: model.LaneTypeSidewalk})
	s.AddLane(&model.Lane{ID: 4, Type: model.LaneTypeBike})

	bikes := s.LaneTypeSet(model.LaneTypeBike)
	assert.Equal(t, uint64(2), bikes.GetCardinality())
	assert.True(t, bikes.Contains(2))
	assert.True(t, bikes.Contains(4))

	mixed := s.LaneTypeSet(model.LaneTypeBike, model.LaneTypeSidewalk)
	assert.Equal(t, uint64(3), mixed.GetCardinality())

	empty := s.LaneTypeSet(model.LaneTypeParking)
	assert.True(t, empty.IsEmpty())
}

func TestReset(t *testing.T) {
	s := New()
	s.AddLane(&model.Lane{ID: 1})
	s.AddTrafficLight(&model.TrafficLight{ID: 2})
	s.AddTrafficSign(&model.TrafficSign{ID: 3})

	s.Reset()

	assert.Equal(t, 0, s.LaneCount())
	assert.Equal(t, 0, s.TrafficLightCount())
	assert.Equal(t, 0, s.TrafficSignCount())
	assert.True(t, s.LaneTypeSet(model.LaneTypeDriving).IsEmpty())

	called := false
	s.ForEachLane(func(*model.Lane) { called = true })
	assert.False(t, called)
}
