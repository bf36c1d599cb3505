package assess

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"

	"bandcoach/internal/evaluations"
	"bandcoach/internal/pipeline"
	"bandcoach/internal/questions"
	"bandcoach/internal/rubrics"
	"bandcoach/pkg/retry"
)

const validStageResponse = `{"score": 7, "summary": "s", "strengths": "st", "improvements": "i"}`

type generatorFunc func(ctx context.Context, prompt string) (string, error)

func (f generatorFunc) Generate(ctx context.Context, prompt string) (string, error) {
	return f(ctx, prompt)
}

// scriptedGenerator satisfies every pipeline prompt: criterion stages get a
// valid result, synthesis gets a narrative report.
func scriptedGenerator() pipeline.Generator {
	return generatorFunc(func(_ context.Context, prompt string) (string, error) {
		if strings.Contains(prompt, "personal writing coach") {
			return "# Your Overall Band Score\n\nGreat work.", nil
		}
		return validStageResponse, nil
	})
}

type stubVision struct {
	description string
	err         error
	calls       int
}

func (v *stubVision) Describe(_ context.Context, _ string) (string, error) {
	v.calls++
	if v.err != nil {
		return "", v.err
	}
	return v.description, nil
}

type stubQuestions struct {
	questions.System
	question *questions.Question
	image    []byte
}

func (q *stubQuestions) Find(_ context.Context, _ uuid.UUID) (*questions.Question, error) {
	if q.question == nil {
		return nil, questions.ErrNotFound
	}
	return q.question, nil
}

func (q *stubQuestions) Image(_ context.Context, _ uuid.UUID) ([]byte, error) {
	if q.image == nil {
		return nil, questions.ErrNoImage
	}
	return q.image, nil
}

type stubEvaluations struct {
	evaluations.System
	history []pipeline.PriorAttempt
	saved   []evaluations.SaveCommand
}

func (e *stubEvaluations) History(_ context.Context, _ uuid.UUID, _ int) ([]pipeline.PriorAttempt, error) {
	return e.history, nil
}

func (e *stubEvaluations) Save(_ context.Context, cmd evaluations.SaveCommand) (*evaluations.Evaluation, error) {
	e.saved = append(e.saved, cmd)
	return &evaluations.Evaluation{
		ID:         uuid.New(),
		QuestionID: cmd.QuestionID,
		EssayText:  cmd.EssayText,
		Report:     cmd.Report,
		WordCount:  cmd.WordCount,
		CreatedAt:  time.Now(),
	}, nil
}

func testSystem(t *testing.T, vis *stubVision, qs *stubQuestions, evals *stubEvaluations) *system {
	t.Helper()
	reg, err := rubrics.Load()
	if err != nil {
		t.Fatalf("load rubrics: %v", err)
	}

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	rt := &pipeline.Runtime{
		Generator: scriptedGenerator(),
		Rubrics:   reg,
		Retry:     retry.Policy{MaxAttempts: 2, BaseDelay: time.Millisecond},
		Logger:    logger,
	}

	return New(rt, vis, qs, evals, logger).(*system)
}

func testEssay() string {
	return strings.TrimSpace(strings.Repeat("technology has reshaped how modern education systems operate today ", 7))
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		cmd     Command
		wantErr error
	}{
		{
			name:    "invalid task type",
			cmd:     Command{TaskType: "speaking_part2", EssayText: testEssay()},
			wantErr: ErrInvalidTaskType,
		},
		{
			name:    "empty essay",
			cmd:     Command{TaskType: questions.AcademicTask2, EssayText: "   "},
			wantErr: ErrEmptyEssay,
		},
		{
			name:    "too short",
			cmd:     Command{TaskType: questions.AcademicTask2, EssayText: "only a few words here"},
			wantErr: ErrEssayTooShort,
		},
		{
			name: "valid",
			cmd:  Command{TaskType: questions.GeneralTask2, EssayText: testEssay()},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			words, err := validate(tt.cmd)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Errorf("validate() error = %v, want %v", err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("validate() error = %v", err)
			}
			if want := len(strings.Fields(tt.cmd.EssayText)); words != want {
				t.Errorf("word count = %d, want %d", words, want)
			}
		})
	}
}

func TestAssessAdHoc(t *testing.T) {
	vis := &stubVision{description: "a bar chart"}
	evals := &stubEvaluations{}
	sys := testSystem(t, vis, &stubQuestions{}, evals)

	result, err := sys.Assess(context.Background(), Command{
		TaskType:  questions.AcademicTask2,
		EssayText: testEssay(),
	})
	if err != nil {
		t.Fatalf("Assess() error = %v", err)
	}

	if result.Error != "" {
		t.Fatalf("result.Error = %q", result.Error)
	}
	if result.Report == "" {
		t.Error("empty report")
	}
	if result.WordCount != len(strings.Fields(testEssay())) {
		t.Errorf("WordCount = %d", result.WordCount)
	}
	if vis.calls != 0 {
		t.Error("vision called without an image")
	}
	if len(evals.saved) != 0 {
		t.Error("ad-hoc submission must not be recorded")
	}
}

func TestAssessWithQuestion(t *testing.T) {
	id := uuid.New()
	key := "questions/" + id.String() + ".png"

	vis := &stubVision{description: "A line graph of rainfall by month."}
	qs := &stubQuestions{
		question: &questions.Question{
			ID:         id,
			TaskType:   questions.AcademicTask1,
			PromptText: "Summarize the rainfall data.",
			ImageKey:   &key,
		},
		image: []byte("png-bytes"),
	}
	evals := &stubEvaluations{
		history: []pipeline.PriorAttempt{{
			WordCount:         150,
			Timestamp:         "2026-08-01T12:00:00Z",
			EssayExcerpt:      "Rainfall rose...",
			EvaluationSummary: "Missed the overview sentence.",
		}},
	}
	sys := testSystem(t, vis, qs, evals)

	result, err := sys.Assess(context.Background(), Command{
		TaskType:   questions.AcademicTask1,
		EssayText:  testEssay(),
		QuestionID: &id,
	})
	if err != nil {
		t.Fatalf("Assess() error = %v", err)
	}

	if result.Error != "" {
		t.Fatalf("result.Error = %q", result.Error)
	}
	if vis.calls != 1 {
		t.Errorf("vision calls = %d, want 1", vis.calls)
	}
	if result.ImageDescription != vis.description {
		t.Errorf("ImageDescription = %q", result.ImageDescription)
	}
	if len(evals.saved) != 1 {
		t.Fatalf("saved attempts = %d, want 1", len(evals.saved))
	}
	if evals.saved[0].QuestionID != id {
		t.Error("saved attempt has wrong question id")
	}
}

func TestGatherCommandFieldsTakePrecedence(t *testing.T) {
	id := uuid.New()
	qs := &stubQuestions{
		question: &questions.Question{
			ID:         id,
			TaskType:   questions.AcademicTask2,
			PromptText: "stored prompt",
		},
	}
	sys := testSystem(t, &stubVision{}, qs, &stubEvaluations{})

	sub, err := sys.gather(context.Background(), Command{
		TaskType:   questions.AcademicTask2,
		PromptText: "inline prompt",
		QuestionID: &id,
	})
	if err != nil {
		t.Fatalf("gather() error = %v", err)
	}

	if sub.promptText != "inline prompt" {
		t.Errorf("promptText = %q, want inline prompt", sub.promptText)
	}
}

func TestGatherFallsBackToQuestion(t *testing.T) {
	id := uuid.New()
	key := "questions/" + id.String() + ".png"
	qs := &stubQuestions{
		question: &questions.Question{
			ID:         id,
			TaskType:   questions.AcademicTask1,
			PromptText: "stored prompt",
			ImageKey:   &key,
		},
		image: []byte{0x89, 0x50, 0x4e, 0x47},
	}
	evals := &stubEvaluations{history: []pipeline.PriorAttempt{{WordCount: 140}}}
	sys := testSystem(t, &stubVision{}, qs, evals)

	sub, err := sys.gather(context.Background(), Command{
		TaskType:   questions.AcademicTask1,
		QuestionID: &id,
	})
	if err != nil {
		t.Fatalf("gather() error = %v", err)
	}

	if sub.promptText != "stored prompt" {
		t.Errorf("promptText = %q", sub.promptText)
	}
	if sub.imageData == "" {
		t.Error("image data not loaded from stored question")
	}
	if len(sub.history) != 1 {
		t.Errorf("history length = %d, want 1", len(sub.history))
	}
}

func TestGatherQuestionNotFound(t *testing.T) {
	id := uuid.New()
	sys := testSystem(t, &stubVision{}, &stubQuestions{}, &stubEvaluations{})

	_, err := sys.gather(context.Background(), Command{
		TaskType:   questions.AcademicTask2,
		QuestionID: &id,
	})
	if !errors.Is(err, questions.ErrNotFound) {
		t.Errorf("gather() error = %v, want not found", err)
	}
}

func TestDescribeImage(t *testing.T) {
	tests := []struct {
		name      string
		taskType  string
		imageData string
		visionErr error
		want      string
	}{
		{"no image", questions.AcademicTask1, "", nil, ""},
		{"task 2 skips vision", questions.AcademicTask2, "base64data", nil, ""},
		{"task 1 describes", questions.AcademicTask1, "base64data", nil, "a chart"},
		{"general task 1 describes", questions.GeneralTask1, "base64data", nil, "a chart"},
		{"vision failure degrades", questions.AcademicTask1, "base64data", errors.New("model offline"), imageUnavailableNote},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			vis := &stubVision{description: "a chart", err: tt.visionErr}
			sys := testSystem(t, vis, &stubQuestions{}, &stubEvaluations{})

			if got := sys.describeImage(context.Background(), tt.taskType, tt.imageData); got != tt.want {
				t.Errorf("describeImage() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestPromptContext(t *testing.T) {
	tests := []struct {
		name        string
		prompt      string
		description string
		want        string
	}{
		{"both", "p", "d", "Task Prompt: p\n\nVisual Description:\nd"},
		{"prompt only", "p", "", "Task Prompt: p"},
		{"description only", "", "d", "Visual Description:\nd"},
		{"neither", "", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := promptContext(tt.prompt, tt.description); got != tt.want {
				t.Errorf("promptContext() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestRecordSkipsFailedOutcome(t *testing.T) {
	id := uuid.New()
	evals := &stubEvaluations{}
	sys := testSystem(t, &stubVision{}, &stubQuestions{}, evals)

	sys.record(context.Background(), Command{QuestionID: &id}, &pipeline.Outcome{
		FinalReport:  "**Evaluation Error**",
		ErrorMessage: "invalid task category",
	}, 100)

	if len(evals.saved) != 0 {
		t.Error("failed outcome must not be recorded")
	}
}
