package memory

import (
	"strings"
	"testing"
	"time"

	"github.com/C-1995-O1-HALE-POPP/ris-system/domain/core/entities"
	"github.com/C-1995-O1-HALE-POPP/ris-system/domain/core/valueobjects"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBoundedLog_TrimsOldest(t *testing.T) {
	log := NewBoundedLog[int](3)

	for i := 1; i <= 5; i++ {
		log.Push(i)
	}

	assert.Equal(t, []int{3, 4, 5}, log.Items())
	last, ok := log.Last()
	require.True(t, ok)
	assert.Equal(t, 5, last)
}

func TestBoundedLog_ZeroLimitIsUnbounded(t *testing.T) {
	log := NewBoundedLog[int](0)

	for i := 0; i < 2000; i++ {
		log.Push(i)
	}

	assert.Equal(t, 2000, log.Len())
}

func TestBoundedLog_ReplaceKeepsNewest(t *testing.T) {
	log := NewBoundedLog[string](2)

	log.Replace([]string{"a", "b", "c"})

	assert.Equal(t, []string{"b", "c"}, log.Items())
	log.Clear()
	_, ok := log.Last()
	assert.False(t, ok)
}

func TestConversationLog_AppendFillsIDAndTimestamp(t *testing.T) {
	conv := NewConversationLog(0)

	msg := conv.Append(entities.Message{Sender: valueobjects.SenderUser, Content: "你好"})
	kept := conv.Append(entities.Message{ID: "msg_fixed", Timestamp: time.Unix(10, 0), Content: "x"})

	assert.True(t, strings.HasPrefix(msg.ID, "msg_"))
	assert.False(t, msg.Timestamp.IsZero())
	assert.Equal(t, valueobjects.KindText, msg.MessageType)
	assert.Equal(t, "msg_fixed", kept.ID)
	assert.Equal(t, time.Unix(10, 0), kept.Timestamp)
	assert.Len(t, conv.Messages(), 2)
}

func TestConversationLog_SwitchingPersonaKeepsHistory(t *testing.T) {
	conv := NewConversationLog(0)
	conv.SetCurrentPersona(&entities.Persona{ID: "char_001", Name: "小慧"})
	conv.Append(entities.Message{PersonaID: "char_001", Content: "a"})

	conv.SetCurrentPersona(&entities.Persona{ID: "char_002", Name: "老王"})
	conv.Append(entities.Message{PersonaID: "char_002", Content: "b"})

	current, ok := conv.CurrentPersona()
	require.True(t, ok)
	assert.Equal(t, "char_002", current.ID)
	assert.Len(t, conv.Messages(), 2)
	assert.Len(t, conv.MessagesFor("char_001"), 1)

	conv.SetCurrentPersona(nil)
	_, ok = conv.CurrentPersona()
	assert.False(t, ok)
}

func TestConversationLog_TypingFlag(t *testing.T) {
	conv := NewConversationLog(0)

	conv.SetTyping(true)
	assert.True(t, conv.Typing())
	conv.SetTyping(false)
	assert.False(t, conv.Typing())
}

func TestConversationLog_PersonaRoster(t *testing.T) {
	conv := NewConversationLog(0)

	conv.AddPersona(entities.Persona{ID: "char_001", Name: "小慧"})
	conv.AddPersona(entities.Persona{ID: "char_001", Name: "dup"})
	conv.SetCurrentPersona(&entities.Persona{ID: "char_001", Name: "小慧"})
	updated := conv.UpdatePersona(entities.Persona{ID: "char_001", Name: "小慧2"})

	assert.True(t, updated)
	assert.False(t, conv.UpdatePersona(entities.Persona{ID: "char_404"}))
	require.Len(t, conv.Personas(), 1)
	assert.Equal(t, "小慧2", conv.Personas()[0].Name)
	current, _ := conv.CurrentPersona()
	assert.Equal(t, "小慧2", current.Name)
}

func TestConversationLog_SubscribeAndUnsubscribe(t *testing.T) {
	conv := NewConversationLog(0)
	var seen []string
	unsubscribe := conv.Subscribe(func(m entities.Message) { seen = append(seen, m.Content) })

	conv.Append(entities.Message{Content: "one"})
	unsubscribe()
	conv.Append(entities.Message{Content: "two"})

	assert.Equal(t, []string{"one"}, seen)
}

func TestConversationLog_Cap(t *testing.T) {
	conv := NewConversationLog(2)

	conv.Append(entities.Message{Content: "1"})
	conv.Append(entities.Message{Content: "2"})
	conv.Append(entities.Message{Content: "3"})

	msgs := conv.Messages()
	require.Len(t, msgs, 2)
	assert.Equal(t, "2", msgs[0].Content)
}
