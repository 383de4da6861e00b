package firestore

import (
	"context"
	"time"

	"cloud.google.com/go/firestore"
	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/taskhub/pkg/domain/interfaces"
	"github.com/secmon-lab/taskhub/pkg/domain/model"
	"github.com/secmon-lab/taskhub/pkg/domain/types"
	"google.golang.org/api/iterator"
)

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
	ID          string    `firestore:"id"`
	Name        string    `firestore:"name"`
	Email       string    `firestore:"email"`
	Departments []string  `firestore:"departments"`
	UpdatedAt   time.Time `firestore:"updated_at"`
}

func (r *userRepository) collection() *firestore.CollectionRef {
	if r.collectionPrefix != "" {
		return r.client.Collection(r.collectionPrefix + "_" + UsersCollection)
	}
	return r.client.Collection(UsersCollection)
}

func (r *userRepository) toDoc(u *model.User) *userDoc {
	depts := u.Departments
	if depts == nil {
		depts = []string{}
	}
	return &userDoc{
		ID:          string(u.ID),
		Name:        u.Name,
		Email:       u.Email,
		Departments: depts,
		UpdatedAt:   u.UpdatedAt,
	}
}

func (r *userRepository) fromDoc(d *userDoc) *model.User {
	return &model.User{
		ID:          types.UserID(d.ID),
		Name:        d.Name,
		Email:       d.Email,
		Departments: d.Departments,
		UpdatedAt:   d.UpdatedAt,
	}
}

func (r *userRepository) collect(iter *firestore.DocumentIterator) ([]*model.User, error) {
	defer iter.Stop()

	users := make([]*model.User, 0)
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

// GetAll retrieves all users from Firestore
func (r *userRepository) GetAll(ctx context.Context) ([]*model.User, error) {
	return r.collect(r.collection().OrderBy("id", firestore.Asc).Documents(ctx))
}

// UsersInDepartment queries users whose departments array contains name
func (r *userRepository) UsersInDepartment(ctx context.Context, name string) ([]*model.User, error) {
	users, err := r.collect(r.collection().Where("departments", "array-contains", name).Documents(ctx))
	if err != nil {
		return nil, goerr.Wrap(err, "failed to query department members", goerr.V("department", name))
	}
	return users, nil
}

// SaveMany upserts users. BulkWriter takes care of Firestore batch limits.
func (r *userRepository) SaveMany(ctx context.Context, users []*model.User) error {
	if len(users) == 0 {
		return nil
	}

	bulkWriter := r.client.BulkWriter(ctx)
	defer bulkWriter.End()

	now := time.Now().UTC()
	jobs := make([]*firestore.BulkWriterJob, len(users))
	for i, u := range users {
		doc := r.toDoc(u)
		if doc.UpdatedAt.IsZero() {
			doc.UpdatedAt = now
		}
		job, err := bulkWriter.Set(r.collection().Doc(doc.ID), doc)
		if err != nil {
			return goerr.Wrap(err, "failed to add Set operation to bulk writer", goerr.V("user_id", u.ID))
		}
		jobs[i] = job
	}

	bulkWriter.Flush()

	for i, job := range jobs {
		if _, err := job.Results(); err != nil {
			return goerr.Wrap(err, "failed to save user", goerr.V("user_id", users[i].ID))
		}
	}

	return nil
}
