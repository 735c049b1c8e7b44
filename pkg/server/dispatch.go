package server

import (
	"context"
	"errors"

	folioerrors "github.com/vango-dev/folio/internal/errors"
	"github.com/vango-dev/folio/pkg/contact"
	"github.com/vango-dev/folio/pkg/middleware"
	"github.com/vango-dev/folio/pkg/page"
	"github.com/vango-dev/folio/pkg/protocol"
)

// dispatch routes one event to the controller that owns it.
func (s *Session) dispatch(ctx context.Context, ev protocol.Event) error {
	switch ev.Type {
	case protocol.EventHello:
		s.hello(ev)
		if err := s.page.Sync(); err != nil {
			return err
		}
		return s.contact.Sync()

	case protocol.EventClick:
		switch ev.Target {
		case page.ElementMenuButton:
			return s.page.ToggleMenu()
		case page.ElementScrollTop:
			return s.page.ScrollToTop()
		case page.ElementMobileMenu:
			return s.page.CloseMenu()
		default:
			s.logger.Debug("click ignored", "target", ev.Target)
			return nil
		}

	case protocol.EventAnchor:
		_, err := s.page.Anchor(ev.Href)
		return err

	case protocol.EventProject:
		if err := s.page.ShowProject(ev.Index); err != nil {
			if errors.Is(err, page.ErrUnknownProject) {
				return folioerrors.New(folioerrors.CodeBadMessage).
					WithDetailf("project index %d", ev.Index).
					Wrap(err)
			}
			return err
		}
		return nil

	case protocol.EventInput:
		f, err := s.field(ev.Target)
		if err != nil {
			return err
		}
		return s.contact.Input(ctx, f, ev.Value)

	case protocol.EventBlur:
		f, err := s.field(ev.Target)
		if err != nil {
			return err
		}
		return s.contact.Blur(f, ev.Value)

	case protocol.EventSubmit:
		return s.submit(ctx, ev)

	case protocol.EventSubscribe:
		return s.contact.Subscribe(ev.Checked)

	case protocol.EventKeyDown:
		return s.page.KeyDown(ev.Key, ev.Ctrl, ev.Meta)

	case protocol.EventScroll:
		return s.page.Scroll(ev.ScrollY, ev.Sections)

	case protocol.EventIntersect:
		return s.page.Intersect(ev.Targets)

	case protocol.EventError:
		s.page.ReportError(ev.Message, ev.Source, ev.Line)
		return nil

	default:
		return folioerrors.New(folioerrors.CodeUnknownEvent).WithDetail(string(ev.Type))
	}
}

// hello checks the page structure the client reported. A broken page is
// reported once per session and the session keeps running. The caller then
// redraws the controlled state, since a reconnecting page may still show
// an earlier session's output.
func (s *Session) hello(ev protocol.Event) {
	violations := s.page.Hello(ev.IDs, ev.Counts)
	if len(violations) == 0 || s.contractReported {
		return
	}
	s.contractReported = true
	ferr := folioerrors.New(folioerrors.CodeMissingElement).
		WithDetail(page.FormatViolations(violations))
	s.logger.Error("page structure check failed", ferr.LogAttrs()...)
	s.metrics.RecordContractViolation()
}

func (s *Session) field(target string) (contact.FieldID, error) {
	f, err := contact.ParseField(target)
	if err != nil {
		return "", folioerrors.New(folioerrors.CodeUnknownField).
			WithDetail(target).
			Wrap(err)
	}
	return f, nil
}

func (s *Session) submit(ctx context.Context, ev protocol.Event) error {
	attempt, err := s.contact.Submit(ctx, contact.SnapshotFromMap(ev.Fields, ev.Checked))
	switch {
	case errors.Is(err, contact.ErrSubmissionInProgress):
		s.metrics.RecordSubmission(middleware.SubmissionRejected)
		return nil
	case err != nil:
		return err
	case attempt.Valid:
		s.metrics.RecordSubmission(middleware.SubmissionAccepted)
	default:
		s.metrics.RecordSubmission(middleware.SubmissionInvalid)
	}
	return nil
}
