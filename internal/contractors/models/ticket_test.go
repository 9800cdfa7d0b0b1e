package models

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTicketJSONCarriesType(t *testing.T) {
	created := time.Date(2024, 10, 2, 9, 30, 0, 0, time.UTC)
	batch := TicketBatch{
		Parent: ParentTicket{TicketHeader: TicketHeader{
			ID: "zd-1", ContractorID: "c1", ContractorName: "John Smith",
			Subject: "Access request: John Smith", Status: TicketOpen, CreatedAt: created,
		}},
		Children: []ChildTicket{{
			TicketHeader: TicketHeader{
				ID: "zd-1-child-0", ContractorID: "c1", ContractorName: "John Smith",
				Subject: "Access: Workday", Status: TicketOpen, CreatedAt: created,
			},
			ParentID: "zd-1", SystemID: "sys1", SystemName: "Workday",
		}},
	}

	b, err := json.Marshal(batch.All())
	require.NoError(t, err)

	var decoded []map[string]any
	require.NoError(t, json.Unmarshal(b, &decoded))
	require.Len(t, decoded, 2)

	assert.Equal(t, "parent", decoded[0]["type"])
	assert.Equal(t, "Access request: John Smith", decoded[0]["subject"])
	assert.NotContains(t, decoded[0], "parentId")

	assert.Equal(t, "child", decoded[1]["type"])
	assert.Equal(t, "zd-1", decoded[1]["parentId"])
	assert.Equal(t, "Workday", decoded[1]["systemName"])
	assert.Equal(t, "2024-10-02T09:30:00Z", decoded[1]["createdAt"])
}

func TestTicketBatchAll(t *testing.T) {
	batch := TicketBatch{
		Parent:   ParentTicket{TicketHeader: TicketHeader{ID: "p"}},
		Children: []ChildTicket{{TicketHeader: TicketHeader{ID: "c0"}}, {TicketHeader: TicketHeader{ID: "c1"}}},
	}

	all := batch.All()
	require.Len(t, all, 3)
	assert.Equal(t, TicketParent, all[0].Type())
	assert.Equal(t, "c0", all[1].Header().ID)
	assert.Equal(t, TicketChild, all[2].Type())

	assert.Len(t, TicketBatch{}.All(), 1, "a batch always has a parent")
}

func TestTicketListDecodesVariants(t *testing.T) {
	in := TicketList{
		ParentTicket{TicketHeader: TicketHeader{ID: "zd-1", Subject: "Access request: John Smith", Status: TicketOpen}},
		ChildTicket{TicketHeader: TicketHeader{ID: "zd-1-child-0", Status: TicketOpen}, ParentID: "zd-1", SystemID: "sys1", SystemName: "Workday"},
	}
	b, err := json.Marshal(in)
	require.NoError(t, err)

	var out TicketList
	require.NoError(t, json.Unmarshal(b, &out))
	assert.Equal(t, in, out)

	err = json.Unmarshal([]byte(`[{"type":"sibling","id":"x"}]`), &out)
	assert.ErrorContains(t, err, "unknown ticket type")
}
