package postgres

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/Jcrispin99/gym-app-sub000/internal/core/entity"
	"github.com/Jcrispin99/gym-app-sub000/internal/core/id"
)

type mockDocument struct {
	entity.Document
	CustomerName string `db:"customer_name" json:"customerName"`
	Skipped      string `db:"-" json:"skipped"`
}

func TestExtractDBColumns_EmbeddedDocument(t *testing.T) {
	cols := ExtractDBColumns[mockDocument]()

	expectedCols := []string{
		"id", "deletion_mark", "version",
		"created_at", "updated_at", "created_by", "updated_by",
		"serie", "correlative", "date", "status",
		"posted_at", "cancelled_at", "location_id", "comment",
		"customer_name",
	}

	for _, expected := range expectedCols {
		assert.Contains(t, cols, expected)
	}
	assert.NotContains(t, cols, "-")
	assert.NotContains(t, cols, "skipped")
}

func TestStructToMap_EmbeddedDocument(t *testing.T) {
	doc := mockDocument{
		Document:     entity.NewDocument(id.New()),
		CustomerName: "Walk-in",
	}
	doc.Serie = "F001"
	doc.Correlative = 7

	m := StructToMap(doc)

	assert.Equal(t, doc.ID, m["id"])
	assert.Equal(t, "F001", m["serie"])
	assert.Equal(t, int64(7), m["correlative"])
	assert.Equal(t, entity.StatusDraft, m["status"])
	assert.Equal(t, "Walk-in", m["customer_name"])
	_, hasSkipped := m["skipped"]
	assert.False(t, hasSkipped)
}

func TestStructToMap_NonStructReturnsNil(t *testing.T) {
	assert.Nil(t, StructToMap(42))
	assert.Nil(t, StructToMap("x"))
}
