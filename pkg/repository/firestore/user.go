package firestore

import (
	"context"
	"time"

	"cloud.google.com/go/firestore"
	"github.com/m-mizutani/goerr/v2"
	"github.com/postpilot-app/postpilot/pkg/domain/interfaces"
	"github.com/postpilot-app/postpilot/pkg/domain/model"
	"github.com/postpilot-app/postpilot/pkg/domain/types"
	"google.golang.org/api/iterator"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

const usersCollection = "users"

type userRepository struct {
	client           *firestore.Client
	collectionPrefix string
}

var _ interfaces.UserRepository = &userRepository{}

func newUserRepository(client *firestore.Client) *userRepository {
	return &userRepository{
		client: client,
	}
}

// userDoc is the Firestore persistence model
type userDoc struct {
	ID               string    `firestore:"id"`
	LinkedInID       string    `firestore:"linkedin_id"`
	Email            string    `firestore:"email"`
	Name             string    `firestore:"name"`
	AccessToken      string    `firestore:"access_token"`
	AutoPosting      bool      `firestore:"auto_posting"`
	ScheduleSettings string    `firestore:"schedule_settings"`
	ContentTemplates string    `firestore:"content_templates"`
	PersonalityType  string    `firestore:"personality_type"`
	Industry         string    `firestore:"industry"`
	LastPostedSlot   string    `firestore:"last_posted_slot"`
	CreatedAt        time.Time `firestore:"created_at"`
	UpdatedAt        time.Time `firestore:"updated_at"`
}

func (r *userRepository) collection() *firestore.CollectionRef {
	if r.collectionPrefix != "" {
		return r.client.Collection(r.collectionPrefix + "_" + usersCollection)
	}
	return r.client.Collection(usersCollection)
}

func (r *userRepository) toDoc(user *model.User) *userDoc {
	return &userDoc{
		ID:               string(user.ID),
		LinkedInID:       user.LinkedInID,
		Email:            user.Email,
		Name:             user.Name,
		AccessToken:      user.AccessToken,
		AutoPosting:      user.AutoPosting,
		ScheduleSettings: user.ScheduleSettings,
		ContentTemplates: user.ContentTemplates,
		PersonalityType:  user.PersonalityType,
		Industry:         user.Industry,
		LastPostedSlot:   user.LastPostedSlot,
		CreatedAt:        user.CreatedAt,
		UpdatedAt:        user.UpdatedAt,
	}
}

func (r *userRepository) fromDoc(doc *userDoc) *model.User {
	return &model.User{
		ID:               types.UserID(doc.ID),
		LinkedInID:       doc.LinkedInID,
		Email:            doc.Email,
		Name:             doc.Name,
		AccessToken:      doc.AccessToken,
		AutoPosting:      doc.AutoPosting,
		ScheduleSettings: doc.ScheduleSettings,
		ContentTemplates: doc.ContentTemplates,
		PersonalityType:  doc.PersonalityType,
		Industry:         doc.Industry,
		LastPostedSlot:   doc.LastPostedSlot,
		CreatedAt:        doc.CreatedAt,
		UpdatedAt:        doc.UpdatedAt,
	}
}

func (r *userRepository) Get(ctx context.Context, id types.UserID) (*model.User, error) {
	doc, err := r.collection().Doc(string(id)).Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return nil, goerr.Wrap(ErrNotFound, "user not found", goerr.V("id", id))
		}
		return nil, goerr.Wrap(err, "failed to get user", goerr.V("id", id))
	}

	var d userDoc
	if err := doc.DataTo(&d); err != nil {
		return nil, goerr.Wrap(err, "failed to unmarshal user", goerr.V("id", id))
	}

	return r.fromDoc(&d), nil
}

func (r *userRepository) Put(ctx context.Context, user *model.User) error {
	if err := user.ID.Validate(); err != nil {
		return goerr.Wrap(err, "invalid user ID")
	}

	if _, err := r.collection().Doc(string(user.ID)).Set(ctx, r.toDoc(user)); err != nil {
		return goerr.Wrap(err, "failed to save user", goerr.V("id", user.ID))
	}
	return nil
}

func (r *userRepository) Delete(ctx context.Context, id types.UserID) error {
	ref := r.collection().Doc(string(id))
	if _, err := ref.Get(ctx); err != nil {
		if status.Code(err) == codes.NotFound {
			return goerr.Wrap(ErrNotFound, "user not found", goerr.V("id", id))
		}
		return goerr.Wrap(err, "failed to check user before delete", goerr.V("id", id))
	}

	if _, err := ref.Delete(ctx); err != nil {
		return goerr.Wrap(err, "failed to delete user", goerr.V("id", id))
	}
	return nil
}

func (r *userRepository) ListAutoPosting(ctx context.Context) ([]*model.User, error) {
	iter := r.collection().Where("auto_posting", "==", true).Documents(ctx)
	defer iter.Stop()

	var users []*model.User
	for {
		doc, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, goerr.Wrap(err, "failed to iterate users")
		}

		var d userDoc
		if err := doc.DataTo(&d); err != nil {
			return nil, goerr.Wrap(err, "failed to unmarshal user", goerr.V("docID", doc.Ref.ID))
		}

		users = append(users, r.fromDoc(&d))
	}

	return users, nil
}

func (r *userRepository) UpdateLastPostedSlot(ctx context.Context, id types.UserID, slot string) error {
	_, err := r.collection().Doc(string(id)).Update(ctx, []firestore.Update{
		{Path: "last_posted_slot", Value: slot},
		{Path: "updated_at", Value: time.Now().UTC()},
	})
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return goerr.Wrap(ErrNotFound, "user not found", goerr.V("id", id))
		}
		return goerr.Wrap(err, "failed to update last posted slot", goerr.V("id", id))
	}
	return nil
}
