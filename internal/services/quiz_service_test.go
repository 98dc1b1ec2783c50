package services

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/campus-hub/quiz-service/internal/cache"
	"github.com/campus-hub/quiz-service/internal/events"
	"github.com/campus-hub/quiz-service/internal/models"
	"github.com/campus-hub/quiz-service/internal/utils"
)

func newTestQuizService(store *fakeStore) (QuizService, *events.MockEventPublisher) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	publisher := events.NewMockEventPublisher(logger)
	svc := NewQuizService(store, publisher, cache.NoopCache{}, logger, utils.NewValidator())
	return svc, publisher
}

func validQuizRequest() *CreateQuizRequest {
	optC := "Option C"
	return &CreateQuizRequest{
		ModuleID: 3,
		Title:    "Networks midterm",
		Duration: 30,
		Questions: []QuestionInput{
			{Text: "Q1", OptionA: "a", OptionB: "b", CorrectOption: "A", Marks: 2},
			{Text: "Q2", OptionA: "a", OptionB: "b", OptionC: &optC, CorrectOption: "C", Marks: 3},
		},
	}
}

func TestQuizCreate(t *testing.T) {
	t.Run("computes total marks from questions", func(t *testing.T) {
		svc, _ := newTestQuizService(newFakeStore())

		quiz, err := svc.Create(context.Background(), validQuizRequest(), lecturer)
		if err != nil {
			t.Fatalf("Create() error = %v", err)
		}
		if quiz.TotalMarks != 5 {
			t.Errorf("total_marks = %v, want 5", quiz.TotalMarks)
		}
		if quiz.LecturerID != lecturer.ID {
			t.Errorf("lecturer_id = %s, want caller", quiz.LecturerID)
		}
		if quiz.Published {
			t.Error("new quiz must start unpublished")
		}
	})

	t.Run("rejects correct option pointing at an empty option", func(t *testing.T) {
		svc, _ := newTestQuizService(newFakeStore())
		req := validQuizRequest()
		req.Questions[0].CorrectOption = "D"

		_, err := svc.Create(context.Background(), req, lecturer)
		if !errors.Is(err, ErrQuestionBadOption) {
			t.Errorf("error = %v, want ErrQuestionBadOption", err)
		}
	})

	t.Run("students cannot create quizzes", func(t *testing.T) {
		svc, _ := newTestQuizService(newFakeStore())

		_, err := svc.Create(context.Background(), validQuizRequest(), student)
		if !IsForbidden(err) {
			t.Errorf("error = %v, want forbidden", err)
		}
	})
}

func TestReplaceQuestionsRecomputesTotalMarks(t *testing.T) {
	store := newFakeStore()
	seedQuiz(store)
	svc, _ := newTestQuizService(store)

	quiz, err := svc.ReplaceQuestions(context.Background(), 7, []QuestionInput{
		{Text: "Q1", OptionA: "a", OptionB: "b", CorrectOption: "B", Marks: 4},
	}, lecturer)
	if err != nil {
		t.Fatalf("ReplaceQuestions() error = %v", err)
	}
	if quiz.TotalMarks != 4 {
		t.Errorf("total_marks = %v, want 4", quiz.TotalMarks)
	}
	if store.quizzes[7].TotalMarks != 4 {
		t.Errorf("persisted total_marks = %v, want 4", store.quizzes[7].TotalMarks)
	}
	if len(store.questions[7]) != 1 {
		t.Errorf("questions = %d, want the replacement set", len(store.questions[7]))
	}
}

func TestReplaceQuestions_NonOwnerDenied(t *testing.T) {
	store := newFakeStore()
	seedQuiz(store)
	svc, _ := newTestQuizService(store)

	_, err := svc.ReplaceQuestions(context.Background(), 7, []QuestionInput{
		{Text: "Q1", OptionA: "a", OptionB: "b", CorrectOption: "A", Marks: 1},
	}, models.Caller{ID: "lecturer-2", Role: models.RoleLecturer})
	if !IsForbidden(err) {
		t.Errorf("error = %v, want forbidden", err)
	}
}

func TestPublishEmitsNotificationEvent(t *testing.T) {
	store := newFakeStore()
	quiz := seedQuiz(store)
	quiz.Published = false
	svc, publisher := newTestQuizService(store)

	if err := svc.Publish(context.Background(), 7, lecturer); err != nil {
		t.Fatalf("Publish() error = %v", err)
	}
	if !store.quizzes[7].Published {
		t.Error("published flag not set")
	}

	// The event is dispatched asynchronously; poll briefly.
	deadline := time.After(2 * time.Second)
	for {
		if got := publisher.GetPublishedEvents(); len(got) == 1 {
			event := got[0]
			if event.Type != events.EventQuizPublished {
				t.Errorf("event type = %s, want %s", event.Type, events.EventQuizPublished)
			}
			if event.Source != "quiz-service" {
				t.Errorf("event source = %s", event.Source)
			}
			return
		}
		select {
		case <-deadline:
			t.Fatal("published event never dispatched")
		case <-time.After(10 * time.Millisecond):
		}
	}
}

func TestPublishUnknownQuiz(t *testing.T) {
	svc, publisher := newTestQuizService(newFakeStore())

	err := svc.Publish(context.Background(), 99, lecturer)
	if !errors.Is(err, ErrQuizNotFound) {
		t.Errorf("error = %v, want ErrQuizNotFound", err)
	}
	if len(publisher.GetPublishedEvents()) != 0 {
		t.Error("event dispatched for failed publish")
	}
}
