// Package session keeps the state of one assessment run: the submitted
// answers, the jobs shown so far and the paging position.
package session

import (
	"errors"
	"sync/atomic"

	"github.com/google/uuid"

	"github.com/careercrafted/careercrafted/internal/career"
	"github.com/careercrafted/careercrafted/internal/careerapi"
	"github.com/careercrafted/careercrafted/internal/jobs"
)

// ErrBusy is returned when a request is started while another is in flight.
var ErrBusy = errors.New("another request is in progress")

type Session struct {
	ID         string
	Assessment *career.Assessment
	Insight    *career.Insight
	Jobs       *jobs.Jobs
	// Search is what "load more" and "save search" send to the remote service.
	Search *careerapi.SearchParams
	// Page is the last page fetched from the remote search, starting at 1.
	Page int
	// HasMore reports whether the remote search may return another page.
	HasMore bool
	// Local is set when results come from the local matcher instead of the remote API.
	Local bool

	busy atomic.Bool
}

func New(assessment *career.Assessment) *Session {
	return &Session{
		ID:         uuid.NewString(),
		Assessment: assessment,
		Jobs:       &jobs.Jobs{},
		Page:       1,
	}
}

// TryAcquire marks the session busy. It reports false when it already was.
func (s *Session) TryAcquire() bool {
	return s.busy.CompareAndSwap(false, true)
}

func (s *Session) Release() {
	s.busy.Store(false)
}

func (s *Session) Busy() bool {
	return s.busy.Load()
}

// Do runs fn while holding the busy flag, or returns ErrBusy.
func (s *Session) Do(fn func() error) error {
	if !s.TryAcquire() {
		return ErrBusy
	}
	defer s.Release()

	return fn()
}

// SearchFromInsight derives search parameters from the matched career and
// the location answers.
func (s *Session) SearchFromInsight() *careerapi.SearchParams {
	params := &careerapi.SearchParams{}
	if s.Insight != nil {
		params.Keywords = s.Insight.CareerMatch
	}
	if s.Assessment != nil {
		params.Location = s.Assessment.Location
		params.JobTypes = s.Assessment.JobTypes
		params.Remote = s.Assessment.Relocate == career.RelocateRemote
	}
	return params
}

// SetResults replaces the current results and resets paging.
func (s *Session) SetResults(insight *career.Insight, items []*jobs.Job, hasMore bool) {
	s.Insight = insight
	s.Jobs = &jobs.Jobs{Items: items}
	s.Page = 1
	s.HasMore = hasMore
}

// AppendPage adds a further page of results.
func (s *Session) AppendPage(page int, items []*jobs.Job, hasMore bool) {
	s.Jobs.Append(items)
	s.Page = page
	s.HasMore = hasMore
}
