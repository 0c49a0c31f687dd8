package memstore

import (
	"context"
	"sort"
	"time"

	"github.com/studyhall/studyhall-api/internal/models"
)

// Seed helpers used by tests and local fixtures.

func (s *Store) AddLessonProgress(lp models.LessonProgress) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lessonProgress = append(s.lessonProgress, lp)
}

func (s *Store) AddVideoProgress(vp models.VideoProgress) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.videoProgress = append(s.videoProgress, vp)
}

func (s *Store) AddQuizAttempt(qa models.QuizAttempt) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.quizAttempts = append(s.quizAttempts, qa)
}

func (s *Store) AddForumPost(p models.ForumPost) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.forumPosts = append(s.forumPosts, p)
}

func (s *Store) AddForumReply(r models.ForumReply) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.forumReplies = append(s.forumReplies, r)
}

func (s *Store) AddAchievement(a models.UserAchievement) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.achievements = append(s.achievements, a)
}

func (s *Store) AddStudyGroupJoin(g models.StudyGroupParticipation) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.groupJoins = append(s.groupJoins, g)
}

func (s *Store) AddMentorship(m models.Mentorship) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.mentorships = append(s.mentorships, m)
}

func (s *Store) AddCollaborationSession(c models.CollaborationSession) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.collabSessions = append(s.collabSessions, c)
}

func inWindow(t, from, to time.Time) bool {
	return !t.Before(from) && !t.After(to)
}

func (s *Store) CountLessonsCompleted(_ context.Context, userID string, from, to time.Time) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	n := 0
	for _, lp := range s.lessonProgress {
		if lp.UserID == userID && inWindow(lp.CompletedAt, from, to) {
			n++
		}
	}
	return n, nil
}

func (s *Store) CountVideosWatched(_ context.Context, userID string, from, to time.Time) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	n := 0
	for _, vp := range s.videoProgress {
		if vp.UserID == userID && inWindow(vp.UpdatedAt, from, to) {
			n++
		}
	}
	return n, nil
}

func (s *Store) ListQuizScores(_ context.Context, userID string, from, to time.Time) ([]float64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var attempts []models.QuizAttempt
	for _, qa := range s.quizAttempts {
		if qa.UserID == userID && inWindow(qa.CreatedAt, from, to) {
			attempts = append(attempts, qa)
		}
	}
	sort.Slice(attempts, func(i, j int) bool { return attempts[i].CreatedAt.After(attempts[j].CreatedAt) })

	scores := make([]float64, len(attempts))
	for i, qa := range attempts {
		scores[i] = qa.Score
	}
	return scores, nil
}

func (s *Store) CountForumPosts(_ context.Context, userID string, from, to time.Time) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	n := 0
	for _, p := range s.forumPosts {
		if p.UserID == userID && inWindow(p.CreatedAt, from, to) {
			n++
		}
	}
	return n, nil
}

func (s *Store) CountForumReplies(_ context.Context, userID string, from, to time.Time) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	n := 0
	for _, r := range s.forumReplies {
		if r.UserID == userID && inWindow(r.CreatedAt, from, to) {
			n++
		}
	}
	return n, nil
}

func (s *Store) CountAchievements(_ context.Context, userID string, from, to time.Time) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	n := 0
	for _, a := range s.achievements {
		if a.UserID == userID && inWindow(a.EarnedAt, from, to) {
			n++
		}
	}
	return n, nil
}

func (s *Store) CountStudyGroupJoins(_ context.Context, userID string, from, to time.Time) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	n := 0
	for _, g := range s.groupJoins {
		if g.UserID == userID && inWindow(g.JoinedAt, from, to) {
			n++
		}
	}
	return n, nil
}

func (s *Store) CountMentoringSessions(_ context.Context, userID string, from, to time.Time) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	n := 0
	for _, m := range s.mentorships {
		if m.UserID == userID && inWindow(m.SessionAt, from, to) {
			n++
		}
	}
	return n, nil
}

func (s *Store) CountCollaborationSessions(_ context.Context, userID string, from, to time.Time) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	n := 0
	for _, c := range s.collabSessions {
		if c.UserID == userID && inWindow(c.JoinedAt, from, to) {
			n++
		}
	}
	return n, nil
}
