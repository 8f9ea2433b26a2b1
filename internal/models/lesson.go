package models

import (
	"encoding/json"
	"fmt"
	"time"
)

type LessonType string

const (
	LessonReading   LessonType = "reading"
	LessonListening LessonType = "listening"
	LessonSpeaking  LessonType = "speaking"
)

func ParseLessonType(s string) (LessonType, error) {
	switch LessonType(s) {
	case LessonReading, LessonListening, LessonSpeaking:
		return LessonType(s), nil
	}
	return "", fmt.Errorf("invalid lesson type: %q", s)
}

// Level is a CEFR level. The backend speaks ordinals (A1=1 .. C2=6).
type Level int

const (
	LevelA1 Level = iota + 1
	LevelA2
	LevelB1
	LevelB2
	LevelC1
	LevelC2
)

var levelNames = [...]string{"A1", "A2", "B1", "B2", "C1", "C2"}

func (l Level) String() string {
	if l < LevelA1 || l > LevelC2 {
		return fmt.Sprintf("Level(%d)", int(l))
	}
	return levelNames[l-1]
}

func (l Level) Valid() bool { return l >= LevelA1 && l <= LevelC2 }

func ParseLevel(s string) (Level, error) {
	for i, name := range levelNames {
		if name == s {
			return Level(i + 1), nil
		}
	}
	return 0, fmt.Errorf("invalid level: %q", s)
}

type MultipleChoiceQuestion struct {
	Index         int      `json:"index"`
	Question      string   `json:"question"`
	Answers       []string `json:"answers"`
	CorrectAnswer int      `json:"correct_answer"`
}

// LessonContent is the type-tagged payload of a lesson. Which concrete
// type sits behind it is decided by Lesson.Type at parse time, so a lesson
// with a mismatched tag/content pair cannot be constructed from the wire.
type LessonContent interface {
	ContentType() LessonType
}

type ReadingContent struct {
	Text      string                   `json:"text"`
	Questions []MultipleChoiceQuestion `json:"questions"`
}

func (ReadingContent) ContentType() LessonType { return LessonReading }

type ListeningContent struct {
	Transcript string                   `json:"transcript"`
	AudioURL   string                   `json:"audio_url"`
	Questions  []MultipleChoiceQuestion `json:"questions"`
}

func (ListeningContent) ContentType() LessonType { return LessonListening }

type SpeakingContent struct {
	Topic        string   `json:"topic"`
	MainQuestion string   `json:"main_question"`
	Guidelines   []string `json:"guidelines"`
}

func (SpeakingContent) ContentType() LessonType { return LessonSpeaking }

// Timestamp accepts the couple of datetime formats the backend emits.
type Timestamp struct {
	time.Time
}

var timestampLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
}

func (t *Timestamp) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	var lastErr error
	for _, layout := range timestampLayouts {
		parsed, err := time.Parse(layout, s)
		if err == nil {
			t.Time = parsed
			return nil
		}
		lastErr = err
	}
	return lastErr
}

func (t Timestamp) MarshalJSON() ([]byte, error) {
	return json.Marshal(t.Format(time.RFC3339))
}

type Lesson struct {
	ID          int           `json:"id"`
	Name        string        `json:"name"`
	Description string        `json:"description"`
	Type        LessonType    `json:"type"`
	Level       Level         `json:"level"`
	Author      User          `json:"author"`
	CreatedAt   Timestamp     `json:"createdAt"`
	Content     LessonContent `json:"content"`
}

func (l *Lesson) UnmarshalJSON(data []byte) error {
	type envelope struct {
		ID          int             `json:"id"`
		Name        string          `json:"name"`
		Description string          `json:"description"`
		Type        string          `json:"type"`
		Level       Level           `json:"level"`
		Author      User            `json:"author"`
		CreatedAt   Timestamp       `json:"createdAt"`
		Content     json.RawMessage `json:"content"`
	}

	var env envelope
	if err := json.Unmarshal(data, &env); err != nil {
		return err
	}

	lessonType, err := ParseLessonType(env.Type)
	if err != nil {
		return err
	}
	if !env.Level.Valid() {
		return fmt.Errorf("invalid level: %d", int(env.Level))
	}

	var content LessonContent
	switch lessonType {
	case LessonReading:
		var c ReadingContent
		if err := json.Unmarshal(env.Content, &c); err != nil {
			return fmt.Errorf("reading content: %w", err)
		}
		content = c
	case LessonListening:
		var c ListeningContent
		if err := json.Unmarshal(env.Content, &c); err != nil {
			return fmt.Errorf("listening content: %w", err)
		}
		content = c
	case LessonSpeaking:
		var c SpeakingContent
		if err := json.Unmarshal(env.Content, &c); err != nil {
			return fmt.Errorf("speaking content: %w", err)
		}
		content = c
	}

	l.ID = env.ID
	l.Name = env.Name
	l.Description = env.Description
	l.Type = lessonType
	l.Level = env.Level
	l.Author = env.Author
	l.CreatedAt = env.CreatedAt
	l.Content = content
	return nil
}

func (l Lesson) MarshalJSON() ([]byte, error) {
	if l.Content == nil {
		return nil, fmt.Errorf("lesson %d has no content", l.ID)
	}
	if l.Content.ContentType() != l.Type {
		return nil, fmt.Errorf("lesson %d: content tag %s does not match type %s", l.ID, l.Content.ContentType(), l.Type)
	}
	type alias struct {
		ID          int           `json:"id"`
		Name        string        `json:"name"`
		Description string        `json:"description"`
		Type        LessonType    `json:"type"`
		Level       Level         `json:"level"`
		Author      User          `json:"author"`
		CreatedAt   Timestamp     `json:"createdAt"`
		Content     LessonContent `json:"content"`
	}
	return json.Marshal(alias(l))
}

// DraftQuestion is the wizard's editable question slot. The backend's
// generate endpoint also answers in this shape ("text", not "question").
type DraftQuestion struct {
	Index         int      `json:"index"`
	Text          string   `json:"text"`
	Answers       []string `json:"answers"`
	CorrectAnswer int      `json:"correct_answer"`
}

// LessonDraft is the in-progress payload of the creation wizard. Exactly
// one group of type-specific fields is populated, according to Current.
type LessonDraft struct {
	Current      LessonType      `json:"current"`
	Text         string          `json:"text,omitempty"`
	AudioURL     string          `json:"audio_url,omitempty"`
	Questions    []DraftQuestion `json:"questions,omitempty"`
	Topic        string          `json:"topic,omitempty"`
	MainQuestion string          `json:"main_question,omitempty"`
	Guidelines   []string        `json:"guidelines,omitempty"`
	Valid        string          `json:"valid"`
	Finished     bool            `json:"finished"`
}

// LessonInfo is the lesson metadata entered alongside the draft content.
type LessonInfo struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	Level       Level  `json:"level"`
}

// LessonSummary is the display-only confirmation left behind after a
// successful upload.
type LessonSummary struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	Type        string `json:"type"`
	Level       string `json:"level"`
}

type GenerateContentRequest struct {
	Text       string     `json:"text,omitempty"`
	Transcript string     `json:"transcript,omitempty"`
	Level      Level      `json:"level"`
	Type       LessonType `json:"type"`
}

// GeneratedContent is the candidate content returned by the backend's
// generate endpoint. Fields are populated according to the requested type.
type GeneratedContent struct {
	Text         string          `json:"text,omitempty"`
	Transcript   string          `json:"transcript,omitempty"`
	Topic        string          `json:"topic,omitempty"`
	MainQuestion string          `json:"main_question,omitempty"`
	Guidelines   []string        `json:"guidelines,omitempty"`
	Questions    []DraftQuestion `json:"questions,omitempty"`
}

type UploadLessonRequest struct {
	Data UploadLessonData `json:"data"`
}

type UploadLessonData struct {
	AuthorID    int        `json:"authorId"`
	Name        string     `json:"name"`
	Description string     `json:"description"`
	Type        LessonType `json:"type"`
	Level       Level      `json:"level"`
	Content     any        `json:"content"`
}

type ReadingUpload struct {
	Text      string          `json:"text"`
	Questions []DraftQuestion `json:"questions"`
}

type ListeningUpload struct {
	Transcript string          `json:"transcript"`
	AudioURL   string          `json:"audio_url"`
	Questions  []DraftQuestion `json:"questions"`
}

type SpeakingUpload struct {
	Topic        string   `json:"topic"`
	MainQuestion string   `json:"main_question"`
	Guidelines   []string `json:"guidelines"`
}
