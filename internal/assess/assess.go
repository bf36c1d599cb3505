package assess

import (
	"context"
	"encoding/base64"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	"bandcoach/internal/evaluations"
	"bandcoach/internal/pipeline"
	"bandcoach/internal/questions"
	"bandcoach/internal/vision"
)

// Attempts of history injected into prompts. Older attempts stay queryable
// but do not travel into generation calls.
const historyLimit = 5

const imageUnavailableNote = "[image uploaded but could not be processed]"

type system struct {
	runtime     *pipeline.Runtime
	vision      vision.System
	questions   questions.System
	evaluations evaluations.System
	logger      *slog.Logger
}

// New creates an assessment system wiring the evaluation pipeline to the
// question bank, attempt history, and vision context.
func New(
	runtime *pipeline.Runtime,
	vis vision.System,
	qs questions.System,
	evals evaluations.System,
	logger *slog.Logger,
) System {
	return &system{
		runtime:     runtime,
		vision:      vis,
		questions:   qs,
		evaluations: evals,
		logger:      logger.With("system", "assess"),
	}
}

func (s *system) Handler() *Handler {
	return NewHandler(s, s.logger)
}

func (s *system) Assess(ctx context.Context, cmd Command) (*Result, error) {
	start := time.Now()

	wordCount, err := validate(cmd)
	if err != nil {
		return nil, err
	}

	sub, err := s.gather(ctx, cmd)
	if err != nil {
		return nil, err
	}

	description := s.describeImage(ctx, cmd.TaskType, sub.imageData)

	outcome, err := pipeline.Run(ctx, s.runtime, pipeline.Input{
		Category:      questions.TaskTypeLabel(cmd.TaskType),
		PromptContext: promptContext(sub.promptText, description),
		DocumentText:  cmd.EssayText,
		WordCount:     wordCount,
		History:       sub.history,
	})
	if err != nil {
		return nil, fmt.Errorf("run evaluation: %w", err)
	}

	s.record(ctx, cmd, outcome, wordCount)

	s.logger.Info(
		"assessment complete",
		"task_type", cmd.TaskType,
		"word_count", wordCount,
		"failed", outcome.ErrorMessage != "",
		"duration", time.Since(start),
	)

	return &Result{
		Report:           outcome.FinalReport,
		Error:            outcome.ErrorMessage,
		WordCount:        wordCount,
		ImageDescription: description,
		ProcessingTime:   time.Since(start).Seconds(),
		Evaluations:      outcome.Evaluations,
	}, nil
}

func validate(cmd Command) (int, error) {
	if !questions.ValidTaskType(cmd.TaskType) {
		return 0, fmt.Errorf("%w: %q", ErrInvalidTaskType, cmd.TaskType)
	}

	words := len(strings.Fields(cmd.EssayText))
	if words == 0 {
		return 0, ErrEmptyEssay
	}
	if words < minEssayWords {
		return 0, fmt.Errorf("%w: %d words (minimum %d)", ErrEssayTooShort, words, minEssayWords)
	}

	return words, nil
}

// submission is the context gathered for one assessment: the effective task
// prompt, base64 image data, and prior attempt history.
type submission struct {
	promptText string
	imageData  string
	history    []pipeline.PriorAttempt
}

// gather resolves the stored question and attempt history concurrently when
// the submission references a question. Command fields take precedence over
// stored question data.
func (s *system) gather(ctx context.Context, cmd Command) (*submission, error) {
	sub := &submission{
		promptText: cmd.PromptText,
		imageData:  cmd.ImageData,
	}

	if cmd.QuestionID == nil {
		return sub, nil
	}

	id := *cmd.QuestionID
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		question, err := s.questions.Find(gctx, id)
		if err != nil {
			return fmt.Errorf("find question: %w", err)
		}

		if sub.promptText == "" {
			sub.promptText = question.PromptText
		}

		if sub.imageData == "" && question.ImageKey != nil {
			data, err := s.questions.Image(gctx, id)
			if err != nil {
				return fmt.Errorf("load question image: %w", err)
			}
			sub.imageData = base64.StdEncoding.EncodeToString(data)
		}

		return nil
	})

	g.Go(func() error {
		history, err := s.evaluations.History(gctx, id, historyLimit)
		if err != nil {
			return fmt.Errorf("load attempt history: %w", err)
		}
		sub.history = history
		return nil
	})

	if err := g.Wait(); err != nil {
		return nil, err
	}

	return sub, nil
}

// describeImage returns a description of the chart image for Task 1
// submissions. Vision failures degrade to a placeholder note; the
// evaluation proceeds without visual grounding.
func (s *system) describeImage(ctx context.Context, taskType, imageData string) string {
	if imageData == "" {
		return ""
	}
	if taskType != questions.AcademicTask1 && taskType != questions.GeneralTask1 {
		return ""
	}

	description, err := s.vision.Describe(ctx, imageData)
	if err != nil {
		s.logger.Warn("image description failed", "error", err)
		return imageUnavailableNote
	}
	return description
}

func promptContext(promptText, imageDescription string) string {
	var parts []string
	if promptText != "" {
		parts = append(parts, "Task Prompt: "+promptText)
	}
	if imageDescription != "" {
		parts = append(parts, "Visual Description:\n"+imageDescription)
	}
	return strings.Join(parts, "\n\n")
}

// record persists the attempt against its question. Failed evaluations and
// ad-hoc submissions are not recorded; persistence errors are logged, never
// surfaced, because the report was already produced.
func (s *system) record(ctx context.Context, cmd Command, outcome *pipeline.Outcome, wordCount int) {
	if cmd.QuestionID == nil || outcome.ErrorMessage != "" {
		return
	}

	_, err := s.evaluations.Save(ctx, evaluations.SaveCommand{
		QuestionID: *cmd.QuestionID,
		EssayText:  cmd.EssayText,
		Report:     outcome.FinalReport,
		WordCount:  wordCount,
	})
	if err != nil {
		s.logger.Error("failed to record evaluation", "question_id", *cmd.QuestionID, "error", err)
	}
}
