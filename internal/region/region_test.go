package region

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/commitfit/internal/render"
	"github.com/commitfit/pkg/models"
)

func TestDefaultLayout(t *testing.T) {
	assert.Equal(t, Layout{Status: "status", Result: "download-links"}, DefaultLayout(models.OperationGather))
	assert.Equal(t, Layout{Status: "bass-model-status", Result: "bass-model-images"}, DefaultLayout(models.OperationFitBass))
	assert.Equal(t, Layout{Status: "innovation-model-status", Result: "innovation-model-images"}, DefaultLayout(models.OperationFitInnovation))
}

func TestBoardPaintAndClear(t *testing.T) {
	var changes []string
	b := NewBoard(func(id string, f render.Fragment) {
		changes = append(changes, id+":"+f.Message)
	})

	status := b.Region("status")
	other := b.Region("bass-model-status")

	status.Clear()
	assert.Empty(t, changes, "clearing an empty region does not notify")

	status.Paint(render.Fragment{Message: "Processing..."})
	assert.Equal(t, "Processing...", status.Content().Message)
	assert.True(t, other.Content().Empty())

	status.Clear()
	status.Clear()
	assert.True(t, status.Content().Empty())
	assert.Equal(t, []string{"status:Processing...", "status:"}, changes)
}

func TestBoardSnapshotAndIDs(t *testing.T) {
	b := NewBoard(nil)
	b.Region("b").Paint(render.Fragment{Message: "two"})
	b.Region("a")

	assert.Equal(t, []string{"a", "b"}, b.IDs())

	snap := b.Snapshot()
	assert.Len(t, snap, 2)
	assert.Equal(t, "two", snap["b"].Message)

	b.Region("b").Paint(render.Fragment{Message: "three"})
	assert.Equal(t, "two", snap["b"].Message, "snapshot is a copy")
}

func TestRegionHandlesShareContent(t *testing.T) {
	b := NewBoard(nil)
	b.Region("x").Paint(render.Fragment{Message: "hello"})
	assert.Equal(t, "hello", b.Region("x").Content().Message)
}
