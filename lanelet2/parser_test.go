package lanelet2

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yiliangbetter/hdmap/model"
	"github.com/yiliangbetter/hdmap/store"
)

const sampleMap = `<?xml version="1.0"?>
<osm>
  <node id="1" lat="0.0" lon="0.0"/>
  <node id="2" lat="0.0" lon="10.0"/>
  <node id="3" lat="5.0" lon="0.0"/>
  <node id="4" lat="5.0" lon="10.0"/>
  <node id="5" lat="2.5" lon="5.0"/>
  <way id="100">
    <nd ref="1"/>
    <nd ref="2"/>
    <tag k="type" v="lanelet"/>
    <tag k="subtype" v="road"/>
    <tag k="speed_limit" v="30"/>
  </way>
  <way id="101">
    <nd ref="3"/>
    <nd ref="4"/>
    <tag k="subtype" v="sidewalk"/>
  </way>
  <way id="102">
    <nd ref="1"/>
    <nd ref="3"/>
  </way>
  <relation id="200">
    <tag k="type" v="regulatory_element"/>
    <tag k="subtype" v="traffic_light"/>
    <member type="node" ref="5" role="refers"/>
    <member type="way" ref="100" role="lanes"/>
  </relation>
  <relation id="201">
    <tag k="type" v="regulatory_element"/>
    <tag k="subtype" v="traffic_sign"/>
    <tag k="sign_type" v="speed_limit"/>
    <tag k="value" v="30"/>
    <member type="node" ref="2" role="refers"/>
    <member type="way" ref="100" role="lanes"/>
    <member type="way" ref="101" role="lanes"/>
  </relation>
</osm>`

func TestParse(t *testing.T) {
	t.Run("Lanes", func(t *testing.T) {
		st := store.New()
		require.NoError(t, NewParser().Parse(strings.NewReader(sampleMap), st))

		// Way 102 has no subtype tag and is not a lane.
		assert.Equal(t, 2, st.LaneCount())

		lane, ok := st.Lane(100)
		require.True(t, ok)
		assert.Equal(t, model.LaneTypeDriving, lane.Type)
		require.Len(t, lane.Centerline, 2)
		assert.InDelta(t, 0.0, lane.Centerline[0].X, 1e-9)
		assert.InDelta(t, 10.0, lane.Centerline[1].X, 1e-9)
		assert.InDelta(t, 30.0/3.6, lane.SpeedLimit, 1e-9)
		assert.InDelta(t, 10.0, lane.BBox.Max.X, 1e-9)

		sidewalk, ok := st.Lane(101)
		require.True(t, ok)
		assert.Equal(t, model.LaneTypeSidewalk, sidewalk.Type)
		assert.InDelta(t, defaultSpeedLimit, sidewalk.SpeedLimit, 1e-9)
	})

	t.Run("TrafficLight", func(t *testing.T) {
		st := store.New()
		require.NoError(t, NewParser().Parse(strings.NewReader(sampleMap), st))
		require.Equal(t, 1, st.TrafficLightCount())

		light, ok := st.TrafficLight(200)
		require.True(t, ok)
		assert.Equal(t, model.TrafficLightUnknown, light.State)
		assert.InDelta(t, 5.0, light.Position.X, 1e-9)
		assert.InDelta(t, 2.5, light.Position.Y, 1e-9)
		assert.Equal(t, []uint64{100}, light.ControlledLaneIDs)
	})

	t.Run("TrafficSign", func(t *testing.T) {
		st := store.New()
		require.NoError(t, NewParser().Parse(strings.NewReader(sampleMap), st))
		require.Equal(t, 1, st.TrafficSignCount())

		sign, ok := st.TrafficSign(201)
		require.True(t, ok)
		assert.Equal(t, model.TrafficSignSpeedLimit, sign.Type)
		assert.Equal(t, "30", sign.Value)
		assert.Equal(t, []uint64{100, 101}, sign.AffectedLaneIDs)
		assert.InDelta(t, 10.0, sign.Position.X, 1e-9)
	})
}

func TestParseNoNodes(t *testing.T) {
	st := store.New()
	err := NewParser().Parse(strings.NewReader("<osm></osm>"), st)
	require.ErrorIs(t, err, ErrNoNodes)
}

func TestParseDanglingNodeRefs(t *testing.T) {
	content := `<osm>
  <node id="1" lat="1.0" lon="2.0"/>
  <way id="10">
    <nd ref="1"/>
    <nd ref="999"/>
    <tag k="subtype" v="road"/>
  </way>
  <way id="11">
    <nd ref="999"/>
    <tag k="subtype" v="road"/>
  </way>
</osm>`

	st := store.New()
	require.NoError(t, NewParser().Parse(strings.NewReader(content), st))

	// Way 11 resolves no points at all and is dropped.
	assert.Equal(t, 1, st.LaneCount())
	lane, ok := st.Lane(10)
	require.True(t, ok)
	assert.Len(t, lane.Centerline, 1)
}

func TestParseMalformedEntriesSkipped(t *testing.T) {
	content := `<osm>
  <node id="abc" lat="1.0" lon="2.0"/>
  <node id="1" lat="1.0" lon="2.0"/>
  <way id="xyz">
    <nd ref="1"/>
    <tag k="subtype" v="road"/>
  </way>
</osm>`

	st := store.New()
	require.NoError(t, NewParser().Parse(strings.NewReader(content), st))
	assert.Equal(t, 0, st.LaneCount())
}
