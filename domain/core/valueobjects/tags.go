package valueobjects

// EmotionTag is one of the fixed emotion keys a character can express
type EmotionTag string

const (
	EmotionHappy   EmotionTag = "happy"
	EmotionSad     EmotionTag = "sad"
	EmotionAngry   EmotionTag = "angry"
	EmotionFearful EmotionTag = "fearful"
	EmotionJealous EmotionTag = "jealous"
	EmotionNervous EmotionTag = "nervous"
)

// EmotionTags lists the tags in display order
var EmotionTags = []EmotionTag{
	EmotionHappy, EmotionSad, EmotionAngry, EmotionFearful, EmotionJealous, EmotionNervous,
}

// IsValid reports whether the tag belongs to the fixed set
func (t EmotionTag) IsValid() bool {
	for _, known := range EmotionTags {
		if t == known {
			return true
		}
	}
	return false
}

// MemoryType classifies a memory
type MemoryType string

const (
	MemoryHappy     MemoryType = "happy"
	MemorySad       MemoryType = "sad"
	MemoryImportant MemoryType = "important"
	MemoryDaily     MemoryType = "daily"
	MemoryNostalgic MemoryType = "nostalgic"
	MemoryFearful   MemoryType = "fearful"
)

// MemoryTypes lists the memory types in display order
var MemoryTypes = []MemoryType{
	MemoryHappy, MemorySad, MemoryImportant, MemoryDaily, MemoryNostalgic, MemoryFearful,
}

// IsValid reports whether the type belongs to the fixed set
func (t MemoryType) IsValid() bool {
	for _, known := range MemoryTypes {
		if t == known {
			return true
		}
	}
	return false
}

// RelationshipTypes are the suggested labels; any free-text label is accepted
var RelationshipTypes = []string{
	"治疗师-患者", "朋友", "家人", "同事", "邻居", "医生-患者", "老师-学生", "恋人", "敌人", "陌生人",
}

// Role of an authenticated identity
type Role string

const (
	RolePatient Role = "patient"
	RoleAdmin   Role = "admin"
)

// IsValid reports whether the role is known
func (r Role) IsValid() bool {
	return r == RolePatient || r == RoleAdmin
}

// Sender identifies who authored a conversation message
type Sender string

const (
	SenderUser      Sender = "user"
	SenderAssistant Sender = "assistant"
	SenderSystem    Sender = "system"
)

// MessageKind is the media kind of a conversation message
type MessageKind string

const (
	KindText  MessageKind = "text"
	KindImage MessageKind = "image"
	KindVoice MessageKind = "voice"
)

// Sentiment is the coarse polarity produced by text analysis
type Sentiment string

const (
	SentimentPositive Sentiment = "positive"
	SentimentNegative Sentiment = "negative"
	SentimentNeutral  Sentiment = "neutral"
)

// IsValid reports whether the sentiment is known
func (s Sentiment) IsValid() bool {
	return s == SentimentPositive || s == SentimentNegative || s == SentimentNeutral
}
