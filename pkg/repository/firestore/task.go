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
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

type taskRepository struct {
	client           *firestore.Client
	collectionPrefix string
}

var _ interfaces.TaskRepository = &taskRepository{}

func newTaskRepository(client *firestore.Client) *taskRepository {
	return &taskRepository{
		client: client,
	}
}

// taskDoc is the Firestore persistence model
type taskDoc struct {
	ID          string     `firestore:"id"`
	ParentID    string     `firestore:"parent_id"`
	OwnerUserID string     `firestore:"owner_user_id"`
	AssigneeIDs []string   `firestore:"assignee_ids"`
	Status      string     `firestore:"status"`
	IsArchived  bool       `firestore:"is_archived"`
	Title       string     `firestore:"title"`
	Description string     `firestore:"description"`
	DueDate     *time.Time `firestore:"due_date"`
	Priority    string     `firestore:"priority"`
	ProjectID   string     `firestore:"project_id"`
	CreatedAt   time.Time  `firestore:"created_at"`
	UpdatedAt   time.Time  `firestore:"updated_at"`
}

func (r *taskRepository) collection() *firestore.CollectionRef {
	if r.collectionPrefix != "" {
		return r.client.Collection(r.collectionPrefix + "_" + TasksCollection)
	}
	return r.client.Collection(TasksCollection)
}

func toTaskDoc(t *model.Task) *taskDoc {
	assignees := make([]string, len(t.AssigneeIDs))
	for i, id := range t.AssigneeIDs {
		assignees[i] = string(id)
	}
	return &taskDoc{
		ID:          string(t.ID),
		ParentID:    string(t.ParentID),
		OwnerUserID: string(t.OwnerUserID),
		AssigneeIDs: assignees,
		Status:      string(t.Status),
		IsArchived:  t.IsArchived,
		Title:       t.Title,
		Description: t.Description,
		DueDate:     t.DueDate,
		Priority:    string(t.Priority),
		ProjectID:   string(t.ProjectID),
		CreatedAt:   t.CreatedAt,
		UpdatedAt:   t.UpdatedAt,
	}
}

func fromTaskDoc(d *taskDoc) *model.Task {
	assignees := make([]types.UserID, len(d.AssigneeIDs))
	for i, id := range d.AssigneeIDs {
		assignees[i] = types.UserID(id)
	}
	return &model.Task{
		ID:          types.TaskID(d.ID),
		ParentID:    types.TaskID(d.ParentID),
		OwnerUserID: types.UserID(d.OwnerUserID),
		AssigneeIDs: assignees,
		Status:      types.TaskStatus(d.Status),
		IsArchived:  d.IsArchived,
		Title:       d.Title,
		Description: d.Description,
		DueDate:     d.DueDate,
		Priority:    types.Priority(d.Priority),
		ProjectID:   types.ProjectID(d.ProjectID),
		CreatedAt:   d.CreatedAt,
		UpdatedAt:   d.UpdatedAt,
	}
}

// query translates the filter into equality clauses. Combinations other than a
// single field need the composite indexes declared by the migrate command.
func (r *taskRepository) query(filter model.TaskFilter) firestore.Query {
	q := r.collection().Query
	if filter.ID != "" {
		q = q.Where("id", "==", string(filter.ID))
	}
	if filter.ParentID != nil {
		q = q.Where("parent_id", "==", string(*filter.ParentID))
	}
	if filter.OwnerUserID != "" {
		q = q.Where("owner_user_id", "==", string(filter.OwnerUserID))
	}
	if filter.IsArchived != nil {
		q = q.Where("is_archived", "==", *filter.IsArchived)
	}
	return q
}

func (r *taskRepository) Create(ctx context.Context, task *model.Task) (*model.Task, error) {
	created := task.Clone()
	if created.ID == "" {
		created.ID = types.NewTaskID()
	}
	now := time.Now().UTC()
	if created.CreatedAt.IsZero() {
		created.CreatedAt = now
	}
	created.UpdatedAt = now

	_, err := r.collection().Doc(string(created.ID)).Create(ctx, toTaskDoc(created))
	if err != nil {
		if status.Code(err) == codes.AlreadyExists {
			return nil, goerr.Wrap(ErrAlreadyExists, "task already exists", goerr.V("id", created.ID))
		}
		return nil, goerr.Wrap(err, "failed to create task", goerr.V("id", created.ID))
	}

	return created, nil
}

func (r *taskRepository) SelectAll(ctx context.Context) ([]*model.Task, error) {
	return r.SelectByFilter(ctx, model.TaskFilter{})
}

func (r *taskRepository) SelectByFilter(ctx context.Context, filter model.TaskFilter) ([]*model.Task, error) {
	iter := r.query(filter).OrderBy("created_at", firestore.Asc).Documents(ctx)
	defer iter.Stop()

	tasks := make([]*model.Task, 0)
	for {
		docSnap, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, goerr.Wrap(err, "failed to iterate tasks")
		}

		var d taskDoc
		if err := docSnap.DataTo(&d); err != nil {
			return nil, goerr.Wrap(err, "failed to decode task", goerr.V("doc_id", docSnap.Ref.ID))
		}
		tasks = append(tasks, fromTaskDoc(&d))
	}

	return tasks, nil
}

// UpdateByFilter reads the matching documents and writes the change-set in one
// transaction, so concurrent writers to the same task are serialised by Firestore.
func (r *taskRepository) UpdateByFilter(ctx context.Context, changes model.TaskChanges, filter model.TaskFilter) ([]*model.Task, error) {
	q := r.query(filter)

	var updated []*model.Task
	err := r.client.RunTransaction(ctx, func(ctx context.Context, tx *firestore.Transaction) error {
		updated = make([]*model.Task, 0)

		docs, err := tx.Documents(q).GetAll()
		if err != nil {
			return goerr.Wrap(err, "failed to read tasks for update")
		}

		now := time.Now().UTC()
		for _, docSnap := range docs {
			var d taskDoc
			if err := docSnap.DataTo(&d); err != nil {
				return goerr.Wrap(err, "failed to decode task", goerr.V("doc_id", docSnap.Ref.ID))
			}

			t := fromTaskDoc(&d)
			changes.Apply(t)
			t.UpdatedAt = now

			if err := tx.Set(docSnap.Ref, toTaskDoc(t)); err != nil {
				return goerr.Wrap(err, "failed to write task", goerr.V("id", t.ID))
			}
			updated = append(updated, t)
		}
		return nil
	})
	if err != nil {
		return nil, goerr.Wrap(err, "failed to update tasks")
	}

	return updated, nil
}
