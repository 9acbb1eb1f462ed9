package eventbus

// Topics 는 기능별 기본 토픽 이름을 한 곳에서 관리한다.
// prefix 는 kafka.topic_prefix 설정값이다.
type Topics struct {
	PostEvents Topic
	UserEvents Topic
}

func NewTopics(prefix string) Topics {
	return Topics{
		PostEvents: NewTopic(prefix + ".post.events"),
		UserEvents: NewTopic(prefix + ".user.events"),
	}
}

func (t Topics) All() []Topic {
	return []Topic{t.PostEvents, t.UserEvents}
}

// DLQs 는 각 기본 토픽의 dead letter 토픽이다. 컨슈머 쪽에서만 생성한다.
func (t Topics) DLQs() []Topic {
	all := t.All()
	out := make([]Topic, 0, len(all))
	for _, topic := range all {
		out = append(out, NewTopic(topic.DLQ()))
	}
	return out
}
