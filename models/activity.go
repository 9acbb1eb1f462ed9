package models

import (
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

const ActivityModelName = "Activity"

var activityMessages = messageTable{
	"eventId": {"required": "Please provide the source event id."},
	"type":    {"required": "Please provide the event type."},
}

// Activity 는 API 가 발행한 도메인 이벤트 한 건의 기록이다.
// Collection: activity
//
// EventID 는 unique 인덱스로 보호되어 같은 이벤트가 재전달되어도 한 번만 저장된다.
type Activity struct {
	ID         primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	EventID    string             `bson:"event_id" json:"eventId" validate:"required"`
	Type       string             `bson:"type" json:"type" validate:"required"`
	SubjectID  string             `bson:"subject_id" json:"subjectId"`
	Summary    string             `bson:"summary,omitempty" json:"summary,omitempty"`
	ActorID    string             `bson:"actor_id,omitempty" json:"actorId,omitempty"`
	RequestID  string             `bson:"request_id,omitempty" json:"requestId,omitempty"`
	OccurredAt time.Time          `bson:"occurred_at" json:"occurredAt"`
	RecordedAt time.Time          `bson:"recorded_at" json:"recordedAt"`
}

func (a *Activity) Validate() error {
	a.EventID = strings.TrimSpace(a.EventID)
	a.Type = strings.TrimSpace(a.Type)
	if err := validate.Struct(a); err != nil {
		return toValidationError(ActivityModelName, "", activityMessages, err)
	}
	return nil
}
