package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/rs/zerolog"

	"github.com/deppfellow/talent-catalog/internal/errs"
	"github.com/deppfellow/talent-catalog/internal/model"
)

type SavedListStore interface {
	Search(ctx context.Context, req model.SavedListSearch) (model.Page[model.SavedList], error)
	Get(ctx context.Context, id int64) (model.SavedList, error)
	FindByName(ctx context.Context, ownerID int64, name string) (model.SavedList, bool, error)
	Create(ctx context.Context, s model.SavedList) (model.SavedList, error)
	Update(ctx context.Context, s model.SavedList) (model.SavedList, error)
	SetExportColumns(ctx context.Context, id int64, editor *model.User, columns []model.ExportColumn) (model.SavedList, error)
	Delete(ctx context.Context, id int64) error
}

// CodeSavedListFixed rejects changes to a fixed saved list.
const CodeSavedListFixed = "SAVED_LIST_FIXED"

type SavedListService struct {
	base
	store SavedListStore
}

func NewSavedListService(log *zerolog.Logger, store SavedListStore) *SavedListService {
	return &SavedListService{base: base{log: log}, store: store}
}

func (s *SavedListService) SearchSavedLists(ctx context.Context, req model.SavedListSearch) (model.Page[model.SavedList], error) {
	page, err := s.store.Search(ctx, req)
	if err != nil {
		return model.Page[model.SavedList]{}, s.fail(ctx, "search_saved_lists", err)
	}
	return page, nil
}

func (s *SavedListService) GetSavedList(ctx context.Context, id int64) (model.SavedList, error) {
	list, err := s.store.Get(ctx, id)
	if err != nil {
		return model.SavedList{}, s.fail(ctx, "get_saved_list", err)
	}
	return list, nil
}

// CreateSavedList stores a list owned by actor. Owners cannot hold two live
// lists with the same name. actor may be nil for unowned lists.
func (s *SavedListService) CreateSavedList(ctx context.Context, actor *model.User, list model.SavedList) (model.SavedList, error) {
	list.Name = strings.TrimSpace(list.Name)
	list.CreatedBy = actor
	if err := s.checkNameFree(ctx, actor, list.Name, 0); err != nil {
		return model.SavedList{}, err
	}

	created, err := s.store.Create(ctx, list)
	if err != nil {
		return model.SavedList{}, s.fail(ctx, "create_saved_list", err)
	}
	return created, nil
}

func (s *SavedListService) UpdateSavedList(ctx context.Context, actor *model.User, list model.SavedList) (model.SavedList, error) {
	list.Name = strings.TrimSpace(list.Name)

	current, err := s.GetSavedList(ctx, list.ID)
	if err != nil {
		return model.SavedList{}, err
	}
	if current.Fixed && current.Name != list.Name {
		return model.SavedList{}, fixedError(current)
	}
	if err := s.checkNameFree(ctx, current.CreatedBy, list.Name, list.ID); err != nil {
		return model.SavedList{}, err
	}

	list.UpdatedBy = actor
	updated, err := s.store.Update(ctx, list)
	if err != nil {
		return model.SavedList{}, s.fail(ctx, "update_saved_list", err)
	}
	return updated, nil
}

// SetExportColumns replaces the list's export columns; their order in
// columns becomes their index.
func (s *SavedListService) SetExportColumns(ctx context.Context, actor *model.User, id int64, columns []model.ExportColumn) (model.SavedList, error) {
	updated, err := s.store.SetExportColumns(ctx, id, actor, columns)
	if err != nil {
		return model.SavedList{}, s.fail(ctx, "set_export_columns", err)
	}
	return updated, nil
}

// DeleteSavedList soft-deletes a list. Fixed lists cannot be deleted.
func (s *SavedListService) DeleteSavedList(ctx context.Context, id int64) error {
	current, err := s.GetSavedList(ctx, id)
	if err != nil {
		return err
	}
	if current.Fixed {
		return fixedError(current)
	}

	if err := s.store.Delete(ctx, id); err != nil {
		return s.fail(ctx, "delete_saved_list", err)
	}
	return nil
}

func (s *SavedListService) checkNameFree(ctx context.Context, owner *model.User, name string, id int64) error {
	if owner == nil {
		return nil
	}
	existing, found, err := s.store.FindByName(ctx, owner.ID, name)
	if err != nil {
		return s.fail(ctx, "find_saved_list", err)
	}
	if found && existing.ID != id {
		return errs.NewConflictError(fmt.Sprintf("Saved list with name %q already exists", name), errs.CodeEntityExists)
	}
	return nil
}

func fixedError(list model.SavedList) error {
	code := CodeSavedListFixed
	return errs.NewBadRequestError(fmt.Sprintf("Saved list %q is fixed", list.Name), true, &code, nil, nil)
}
