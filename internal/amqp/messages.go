package amqp

import (
	"encoding/json"
	"errors"
	"time"
)

var errMissingID = errors.New("cost added message without id")

// CostAddedMessage announces a stored cost. It carries only the id; consumers
// load the full record from the store.
type CostAddedMessage struct {
	ID        int64     `json:"id"`
	Timestamp time.Time `json:"timestamp"`
}

func NewCostAddedMessage(id int64) *CostAddedMessage {
	return &CostAddedMessage{
		ID:        id,
		Timestamp: time.Now(),
	}
}

func (m *CostAddedMessage) ToJSON() ([]byte, error) {
	return json.Marshal(m)
}

// CostAddedMessageFromJSON decodes a message body. Bodies without a
// positive id are rejected.
func CostAddedMessageFromJSON(data []byte) (*CostAddedMessage, error) {
	var msg CostAddedMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		return nil, err
	}
	if msg.ID <= 0 {
		return nil, errMissingID
	}
	return &msg, nil
}
