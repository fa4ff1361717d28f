package store

import (
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/formatos-dev/formatos/internal/model"
	"github.com/formatos-dev/formatos/internal/tree"
)

// State is the whole application state, replaced wholesale on every
// mutation. It is safe to hand out because mutations never write through
// previously returned values.
type State struct {
	Formats            []model.Format
	ActiveFormatID     string
	Accounts           []model.Account
	CostCenters        []model.CostCenter
	DefaultCostCenters []string
}

// Service holds the current State and persists every transition back to the
// Store, whole collections at a time. All methods are synchronous and the
// service assumes a single caller; a server adaptation would need to
// serialize mutations per format.
type Service struct {
	store  Store
	logger *zap.Logger
	state  State
}

// NewService loads all collections from the store.
func NewService(st Store, logger *zap.Logger) (*Service, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	s := &Service{store: st, logger: logger}

	load := func(key string, into any) error {
		if _, err := st.Get(key, into); err != nil {
			return fmt.Errorf("loading %s: %w", key, err)
		}
		return nil
	}
	if err := load(KeyFormats, &s.state.Formats); err != nil {
		return nil, err
	}
	if err := load(KeyActiveFormat, &s.state.ActiveFormatID); err != nil {
		return nil, err
	}
	if err := load(KeyAccounts, &s.state.Accounts); err != nil {
		return nil, err
	}
	if err := load(KeyCostCenters, &s.state.CostCenters); err != nil {
		return nil, err
	}
	if err := load(KeyDefaultCostCenters, &s.state.DefaultCostCenters); err != nil {
		return nil, err
	}
	return s, nil
}

// Snapshot returns a copy of the current state.
func (s *Service) Snapshot() State {
	return s.state
}

// Formats returns all formats.
func (s *Service) Formats() []model.Format {
	return s.state.Formats
}

// Accounts returns the account catalog.
func (s *Service) Accounts() []model.Account {
	return s.state.Accounts
}

// CostCenters returns the cost-center catalog.
func (s *Service) CostCenters() []model.CostCenter {
	return s.state.CostCenters
}

// ActiveFormat returns the currently selected format.
func (s *Service) ActiveFormat() (model.Format, bool) {
	return s.findFormat(s.state.ActiveFormatID)
}

// FormatByName returns the first format with the given name.
func (s *Service) FormatByName(name string) (model.Format, bool) {
	for _, f := range s.state.Formats {
		if f.Name == name {
			return f, true
		}
	}
	return model.Format{}, false
}

func (s *Service) findFormat(id string) (model.Format, bool) {
	for _, f := range s.state.Formats {
		if f.ID == id {
			return f, true
		}
	}
	return model.Format{}, false
}

// AddFormat creates an empty format with the given name and selects it.
func (s *Service) AddFormat(name string) (model.Format, error) {
	f := model.Format{
		ID:                 uuid.NewString(),
		Name:               name,
		Structure:          []model.Node{},
		DefaultCostCenters: []string{},
	}
	return s.appendFormat(f)
}

// AddImportedFormat registers a format built by the importer and selects it.
func (s *Service) AddImportedFormat(f model.Format) (model.Format, error) {
	if f.ID == "" {
		f.ID = uuid.NewString()
	}
	return s.appendFormat(f)
}

func (s *Service) appendFormat(f model.Format) (model.Format, error) {
	formats := append(append([]model.Format(nil), s.state.Formats...), f)
	if err := s.persistFormats(formats); err != nil {
		return model.Format{}, err
	}
	if err := s.persistActive(f.ID); err != nil {
		return model.Format{}, err
	}
	s.logger.Info("format added", zap.String("id", f.ID), zap.String("name", f.Name))
	return f, nil
}

// RenameFormat changes a format's display name.
func (s *Service) RenameFormat(id, name string) error {
	formats, found := s.mapFormat(id, func(f model.Format) model.Format {
		f.Name = name
		return f
	})
	if !found {
		return fmt.Errorf("rename %q: %w", id, ErrFormatNotFound)
	}
	return s.persistFormats(formats)
}

// SelectFormat marks a format as the active one.
func (s *Service) SelectFormat(id string) error {
	if _, ok := s.findFormat(id); !ok {
		return fmt.Errorf("select %q: %w", id, ErrFormatNotFound)
	}
	return s.persistActive(id)
}

// DeleteFormat removes a format. Catalog entities are independent of any
// format, so nothing cascades.
func (s *Service) DeleteFormat(id string) error {
	if _, ok := s.findFormat(id); !ok {
		return fmt.Errorf("delete %q: %w", id, ErrFormatNotFound)
	}
	formats := make([]model.Format, 0, len(s.state.Formats)-1)
	for _, f := range s.state.Formats {
		if f.ID != id {
			formats = append(formats, f)
		}
	}
	if err := s.persistFormats(formats); err != nil {
		return err
	}
	if s.state.ActiveFormatID == id {
		return s.persistActive("")
	}
	return nil
}

// SetDefaultCostCenters replaces the global default cost-center selection.
func (s *Service) SetDefaultCostCenters(codes []string) error {
	codes = append([]string(nil), codes...)
	if err := s.store.Set(KeyDefaultCostCenters, codes); err != nil {
		return fmt.Errorf("persisting %s: %w", KeyDefaultCostCenters, err)
	}
	s.state.DefaultCostCenters = codes
	return nil
}

// InsertNode adds a node to the active format's tree and returns it.
func (s *Service) InsertNode(parentID string, kind model.NodeKind, account *model.Account, costCenters []string) (model.Node, error) {
	f, ok := s.ActiveFormat()
	if !ok {
		return model.Node{}, ErrNoActiveFormat
	}
	structure, node, err := tree.Insert(f.Structure, parentID, kind, account, costCenters)
	if err != nil {
		return model.Node{}, err
	}
	return node, s.replaceStructure(f.ID, structure)
}

// UpdateNode merges changes into a node of the active format.
func (s *Service) UpdateNode(id string, changes tree.NodeChanges) error {
	f, ok := s.ActiveFormat()
	if !ok {
		return ErrNoActiveFormat
	}
	structure, err := tree.Update(f.Structure, id, changes)
	if err != nil {
		return err
	}
	return s.replaceStructure(f.ID, structure)
}

// DeleteNode removes a node and its subtree from the active format.
func (s *Service) DeleteNode(id string) error {
	f, ok := s.ActiveFormat()
	if !ok {
		return ErrNoActiveFormat
	}
	structure, err := tree.Delete(f.Structure, id)
	if err != nil {
		return err
	}
	return s.replaceStructure(f.ID, structure)
}

// MoveNode repositions a node within the active format.
func (s *Service) MoveNode(id, newParentID string, index int) error {
	f, ok := s.ActiveFormat()
	if !ok {
		return ErrNoActiveFormat
	}
	structure, err := tree.Move(f.Structure, id, newParentID, index)
	if err != nil {
		return err
	}
	return s.replaceStructure(f.ID, structure)
}

func (s *Service) replaceStructure(formatID string, structure []model.Node) error {
	formats, _ := s.mapFormat(formatID, func(f model.Format) model.Format {
		f.Structure = structure
		return f
	})
	return s.persistFormats(formats)
}

// mapFormat returns a new format slice with fn applied to the matching
// format.
func (s *Service) mapFormat(id string, fn func(model.Format) model.Format) ([]model.Format, bool) {
	formats := make([]model.Format, len(s.state.Formats))
	found := false
	for i, f := range s.state.Formats {
		if f.ID == id {
			f = fn(f)
			found = true
		}
		formats[i] = f
	}
	return formats, found
}

// AddAccount appends a catalog account.
func (s *Service) AddAccount(a model.Account) error {
	accounts := append(append([]model.Account(nil), s.state.Accounts...), a)
	return s.persistAccounts(accounts)
}

// AddAccounts appends a batch of catalog accounts (an import result).
func (s *Service) AddAccounts(batch []model.Account) error {
	accounts := append(append([]model.Account(nil), s.state.Accounts...), batch...)
	return s.persistAccounts(accounts)
}

// UpdateAccount replaces the catalog account with the given id. Existing
// tree nodes keep their snapshot; only the catalog entry changes.
func (s *Service) UpdateAccount(id string, a model.Account) error {
	accounts := make([]model.Account, len(s.state.Accounts))
	found := false
	for i, cur := range s.state.Accounts {
		if cur.ID == id {
			cur = a
			found = true
		}
		accounts[i] = cur
	}
	if !found {
		return fmt.Errorf("update account %q: %w", id, ErrAccountNotFound)
	}
	return s.persistAccounts(accounts)
}

// DeleteAccount removes a catalog account. The deletion is refused when any
// format's tree references the account.
func (s *Service) DeleteAccount(id string) error {
	if err := s.checkUnused("account", id, func(f model.Format) bool {
		return tree.UsesAccount(f.Structure, id)
	}); err != nil {
		return err
	}
	accounts := make([]model.Account, 0, len(s.state.Accounts))
	found := false
	for _, a := range s.state.Accounts {
		if a.ID == id {
			found = true
			continue
		}
		accounts = append(accounts, a)
	}
	if !found {
		return fmt.Errorf("delete account %q: %w", id, ErrAccountNotFound)
	}
	return s.persistAccounts(accounts)
}

// AddCostCenter appends a catalog cost center.
func (s *Service) AddCostCenter(c model.CostCenter) error {
	centers := append(append([]model.CostCenter(nil), s.state.CostCenters...), c)
	return s.persistCostCenters(centers)
}

// AddCostCenters appends a batch of cost centers (an import result).
func (s *Service) AddCostCenters(batch []model.CostCenter) error {
	centers := append(append([]model.CostCenter(nil), s.state.CostCenters...), batch...)
	return s.persistCostCenters(centers)
}

// UpdateCostCenter replaces the cost center with the given id.
func (s *Service) UpdateCostCenter(id string, c model.CostCenter) error {
	centers := make([]model.CostCenter, len(s.state.CostCenters))
	found := false
	for i, cur := range s.state.CostCenters {
		if cur.ID == id {
			cur = c
			found = true
		}
		centers[i] = cur
	}
	if !found {
		return fmt.Errorf("update cost center %q: %w", id, ErrCostCenterNotFound)
	}
	return s.persistCostCenters(centers)
}

// DeleteCostCenter removes a cost center. The deletion is refused when any
// format's tree carries its external code.
func (s *Service) DeleteCostCenter(id string) error {
	var code string
	found := false
	for _, c := range s.state.CostCenters {
		if c.ID == id {
			code = c.ExternalCode
			found = true
		}
	}
	if !found {
		return fmt.Errorf("delete cost center %q: %w", id, ErrCostCenterNotFound)
	}
	if err := s.checkUnused("cost center", id, func(f model.Format) bool {
		return tree.UsesCostCenter(f.Structure, code)
	}); err != nil {
		return err
	}

	centers := make([]model.CostCenter, 0, len(s.state.CostCenters)-1)
	for _, c := range s.state.CostCenters {
		if c.ID != id {
			centers = append(centers, c)
		}
	}
	return s.persistCostCenters(centers)
}

func (s *Service) checkUnused(entity, id string, inUse func(model.Format) bool) error {
	var ids, names []string
	for _, f := range s.state.Formats {
		if inUse(f) {
			ids = append(ids, f.ID)
			names = append(names, f.Name)
		}
	}
	if len(ids) > 0 {
		return ReferentialIntegrityError{Entity: entity, EntityID: id, FormatIDs: ids, FormatNames: names}
	}
	return nil
}

func (s *Service) persistFormats(formats []model.Format) error {
	if err := s.store.Set(KeyFormats, formats); err != nil {
		return fmt.Errorf("persisting %s: %w", KeyFormats, err)
	}
	s.state.Formats = formats
	return nil
}

func (s *Service) persistActive(id string) error {
	if err := s.store.Set(KeyActiveFormat, id); err != nil {
		return fmt.Errorf("persisting %s: %w", KeyActiveFormat, err)
	}
	s.state.ActiveFormatID = id
	return nil
}

func (s *Service) persistAccounts(accounts []model.Account) error {
	if err := s.store.Set(KeyAccounts, accounts); err != nil {
		return fmt.Errorf("persisting %s: %w", KeyAccounts, err)
	}
	s.state.Accounts = accounts
	return nil
}

func (s *Service) persistCostCenters(centers []model.CostCenter) error {
	if err := s.store.Set(KeyCostCenters, centers); err != nil {
		return fmt.Errorf("persisting %s: %w", KeyCostCenters, err)
	}
	s.state.CostCenters = centers
	return nil
}
