package candidatenotes

import (
	"context"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
	"gorm.io/gorm"
	"talentflow-backend/db"
	"talentflow-backend/lib/candidate"
	notestore "talentflow-backend/lib/candidate-notes/store"
	candidatestore "talentflow-backend/lib/candidate/store"
	"talentflow-backend/lib/transport"
	"talentflow-backend/lib/utils/helpers"
	"talentflow-backend/models"
	candidateapimodels "talentflow-backend/models/api/candidate"
	dbmodels "talentflow-backend/models/db"
)

type Provider interface {
	AddNote(ctx context.Context, candidateID uint, content string) (item candidateapimodels.NoteView, err error)
	// GetNotes is ascending by timestamp, mentions are resolved against the current candidates.
	GetNotes(ctx context.Context, candidateID uint) (list []candidateapimodels.NoteView, err error)
	DeleteNote(ctx context.Context, candidateID, noteID uint) error
}

var Instance Provider

func NewHandler(tr transport.Provider) {
	Instance = NewInstance(db.DB, tr)
}

func NewInstance(DB *gorm.DB, tr transport.Provider) Provider {
	return impl{
		store:          notestore.NewInstance(DB),
		candidateStore: candidatestore.NewInstance(DB),
		transport:      tr,
	}
}

type impl struct {
	store          notestore.Provider
	candidateStore candidatestore.Provider
	transport      transport.Provider
}

func (i impl) AddNote(ctx context.Context, candidateID uint, content string) (item candidateapimodels.NoteView, err error) {
	if err = (candidateapimodels.NoteRequest{Content: content}).Validate(); err != nil {
		return item, err
	}
	err = i.transport.Do(ctx, transport.Mutation("note.add"), func(ctx context.Context) error {
		if err := i.checkCandidate(candidateID); err != nil {
			return err
		}
		rec := dbmodels.Note{
			CandidateID: candidateID,
			Content:     helpers.PlainText(content),
			Timestamp:   time.Now().UTC(),
		}
		id, err := i.store.Create(rec)
		if err != nil {
			return errors.Wrap(err, "failed to add note")
		}
		rec.ID = id
		candidates, err := i.mentionCandidates()
		if err != nil {
			return err
		}
		item = noteConvert(rec, candidates)
		return nil
	})
	if err != nil {
		return item, err
	}
	log.WithField("candidate_id", candidateID).WithField("note_id", item.ID).Info("note added")
	return item, nil
}

func (i impl) GetNotes(ctx context.Context, candidateID uint) (list []candidateapimodels.NoteView, err error) {
	err = i.transport.Do(ctx, transport.Read("note.list"), func(ctx context.Context) error {
		if err := i.checkCandidate(candidateID); err != nil {
			return err
		}
		notes, err := i.store.List(candidateID)
		if err != nil {
			return errors.Wrap(err, "failed to list notes")
		}
		candidates, err := i.mentionCandidates()
		if err != nil {
			return err
		}
		list = make([]candidateapimodels.NoteView, 0, len(notes))
		for _, note := range notes {
			list = append(list, noteConvert(note, candidates))
		}
		return nil
	})
	return list, err
}

func (i impl) DeleteNote(ctx context.Context, candidateID, noteID uint) error {
	err := i.transport.Do(ctx, transport.Mutation("note.delete"), func(ctx context.Context) error {
		if err := i.store.Delete(candidateID, noteID); err != nil {
			return errors.Wrap(err, "failed to delete note")
		}
		return nil
	})
	if err != nil {
		return err
	}
	log.WithField("candidate_id", candidateID).WithField("note_id", noteID).Info("note deleted")
	return nil
}

func (i impl) checkCandidate(candidateID uint) error {
	rec, err := i.candidateStore.GetByID(candidateID)
	if err != nil {
		return errors.Wrap(err, "failed to get candidate")
	}
	if rec == nil {
		return models.NewNotFound("candidate %v not found", candidateID)
	}
	return nil
}

func (i impl) mentionCandidates() ([]candidateapimodels.CandidateView, error) {
	recList, err := i.candidateStore.ListAll(candidateapimodels.CandidateFilter{})
	if err != nil {
		return nil, errors.Wrap(err, "failed to list candidates for mentions")
	}
	result := make([]candidateapimodels.CandidateView, 0, len(recList))
	for _, rec := range recList {
		result = append(result, candidateapimodels.CandidateConvert(rec))
	}
	return result, nil
}

func noteConvert(rec dbmodels.Note, candidates []candidateapimodels.CandidateView) candidateapimodels.NoteView {
	return candidateapimodels.NoteView{
		ID:          rec.ID,
		CandidateID: rec.CandidateID,
		Content:     rec.Content,
		Timestamp:   rec.Timestamp,
		Ago:         humanize.Time(rec.Timestamp),
		Segments:    candidate.ResolveMentions(rec.Content, candidates),
	}
}
