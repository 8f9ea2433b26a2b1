package models

// ExerciseQuestion is a question as presented to a student: same shape as
// an authored question minus the correct-answer key.
type ExerciseQuestion struct {
	Index    int      `json:"index"`
	Question string   `json:"question"`
	Answers  []string `json:"answers"`
}

// AnswerRecord is one answered question inside an attempt.
type AnswerRecord struct {
	Index         int      `json:"index"`
	Question      string   `json:"question"`
	Answers       []string `json:"answers"`
	StudentAnswer int      `json:"student_answer"`
}

// ExerciseAttempt collects a student's answers for one lesson. Answers are
// keyed by question index, latest selection wins. Once Submitted is set the
// attempt is closed and no longer mutated.
type ExerciseAttempt struct {
	LessonID   int                `json:"lesson_id"`
	LessonType LessonType         `json:"lesson_type"`
	Level      Level              `json:"level"`
	Transcript string             `json:"transcript"`
	AudioURL   string             `json:"audio_url,omitempty"`
	Questions  []ExerciseQuestion `json:"questions"`
	Answers    []AnswerRecord     `json:"answers"`
	Submitted  bool               `json:"submitted"`
}

type GradeRequest struct {
	LessonID   int            `json:"lesson_id"`
	UserID     int            `json:"user_id"`
	Transcript string         `json:"transcript"`
	Level      Level          `json:"level"`
	LessonType LessonType     `json:"lesson_type"`
	Questions  []AnswerRecord `json:"questions"`
}

type GradedQuestion struct {
	Index         int      `json:"index"`
	Question      string   `json:"question"`
	Answers       []string `json:"answers"`
	StudentAnswer int      `json:"student_answer"`
	CorrectAnswer int      `json:"correct_answer"`
}

// Grade is the backend's scoring result, never mutated locally.
type Grade struct {
	Exercises      []GradedQuestion `json:"exercises"`
	Score          int              `json:"score"`
	MaxScore       int              `json:"max_score"`
	OverallComment string           `json:"overall_comment"`
	DetailComment  string           `json:"detail_comment"`
	Suggestions    string           `json:"suggestions"`
}
