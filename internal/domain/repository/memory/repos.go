package memory

import (
	"context"

	"codeclub/internal/domain/model"
	"codeclub/internal/domain/repository"
)

// The repository interfaces reuse method names across entity types (Create,
// FindByID, ...), so the Store exposes entity-qualified methods and these thin
// views adapt them to the interfaces.

func (s *Store) Users() repository.UserRepository       { return userView{s} }
func (s *Store) Events() repository.EventRepository     { return eventView{s} }
func (s *Store) Contests() repository.ContestRepository { return s }
func (s *Store) Forum() repository.ForumRepository      { return s }
func (s *Store) Resources() repository.ResourceRepository {
	return resourceView{s}
}

type userView struct{ s *Store }

func (v userView) Create(ctx context.Context, user *model.User) error {
	return v.s.CreateUser(ctx, user)
}

func (v userView) FindByID(ctx context.Context, id int64) (*model.User, error) {
	return v.s.FindUserByID(ctx, id)
}

func (v userView) FindByEmail(ctx context.Context, email string) (*model.User, error) {
	return v.s.FindUserByEmail(ctx, email)
}

func (v userView) FindByUsername(ctx context.Context, username string) (*model.User, error) {
	return v.s.FindUserByUsername(ctx, username)
}

func (v userView) List(ctx context.Context) ([]model.User, error) {
	return v.s.ListUsers(ctx)
}

func (v userView) Update(ctx context.Context, user *model.User) error {
	return v.s.UpdateUser(ctx, user)
}

type eventView struct{ s *Store }

func (v eventView) Create(ctx context.Context, event *model.Event) error {
	return v.s.CreateEvent(ctx, event)
}

func (v eventView) FindByID(ctx context.Context, id int64) (*model.Event, error) {
	return v.s.FindEventByID(ctx, id)
}

func (v eventView) List(ctx context.Context) ([]model.Event, error) {
	return v.s.ListEvents(ctx)
}

func (v eventView) Update(ctx context.Context, event *model.Event) error {
	return v.s.UpdateEvent(ctx, event)
}

func (v eventView) Delete(ctx context.Context, id int64) error {
	return v.s.DeleteEvent(ctx, id)
}

func (v eventView) Register(ctx context.Context, eventID, userID int64) (*model.EventRegistration, error) {
	return v.s.Register(ctx, eventID, userID)
}

func (v eventView) Unregister(ctx context.Context, eventID, userID int64) error {
	return v.s.Unregister(ctx, eventID, userID)
}

func (v eventView) ListRegistrations(ctx context.Context, eventID int64) ([]model.EventRegistration, error) {
	return v.s.ListRegistrations(ctx, eventID)
}

type resourceView struct{ s *Store }

func (v resourceView) Create(ctx context.Context, res *model.Resource) error {
	return v.s.CreateResource(ctx, res)
}

func (v resourceView) FindByID(ctx context.Context, id int64) (*model.Resource, error) {
	return v.s.FindResourceByID(ctx, id)
}

func (v resourceView) List(ctx context.Context) ([]model.Resource, error) {
	return v.s.ListResources(ctx)
}

func (v resourceView) Update(ctx context.Context, res *model.Resource) error {
	return v.s.UpdateResource(ctx, res)
}

func (v resourceView) Delete(ctx context.Context, id int64) error {
	return v.s.DeleteResource(ctx, id)
}

func (v resourceView) SlugTaken(ctx context.Context, slug string) (bool, error) {
	return v.s.ResourceSlugTaken(ctx, slug)
}
