package cv

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"slices"
	"strings"

	"github.com/google/uuid"
)

var (
	ErrUnknownList  = errors.New("unknown list")
	ErrItemNotFound = errors.New("item not found")
	ErrDuplicateID  = errors.New("duplicate item id")
)

// List names an editable list of Data.
type List string

const (
	ListExperience List = "experience"
	ListEducation  List = "education"
	ListProjects   List = "projects"
	ListSkills     List = "skills"
	ListLanguages  List = "languages"
	ListInterests  List = "interests"
)

func decodeStrict(raw []byte, v any) error {
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.DisallowUnknownFields()
	return dec.Decode(v)
}

var lists = []List{ListExperience, ListEducation, ListProjects, ListSkills, ListLanguages, ListInterests}

// Patch merges a JSON document into d. Fields present in raw overwrite, absent
// fields are kept, and lists present are replaced as a whole: their items get
// fresh ids when none is given and must not repeat an id. d is left untouched
// when raw is rejected.
func (d *Data) Patch(raw []byte) error {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(raw, &fields); err != nil {
		return fmt.Errorf("decode patch: %w", err)
	}
	next := d.Clone()
	var replaced []listOps
	for _, list := range lists {
		if _, ok := fields[string(list)]; !ok {
			continue
		}
		ops, _ := next.ops(list)
		ops.reset()
		replaced = append(replaced, ops)
	}
	if err := decodeStrict(raw, &next); err != nil {
		return fmt.Errorf("decode patch: %w", err)
	}
	for _, ops := range replaced {
		if err := ops.assignIDs(); err != nil {
			return fmt.Errorf("patch: %w", err)
		}
	}
	*d = next
	return nil
}

type identified[T any] interface {
	*T
	key() *string
}

func (e *Experience) key() *string { return &e.ID }
func (e *Education) key() *string  { return &e.ID }
func (p *Project) key() *string    { return &p.ID }
func (s *Skill) key() *string      { return &s.ID }
func (l *Language) key() *string   { return &l.ID }
func (i *Interest) key() *string   { return &i.ID }

type listOps struct {
	add    func(raw []byte) (string, error)
	update func(id string, raw []byte) error
	remove func(id string) error
	// reset drops every item; assignIDs fills empty ids and rejects repeats.
	reset     func()
	assignIDs func() error
}

func opsFor[T any, P identified[T]](items *[]T) listOps {
	indexOf := func(id string) int {
		return slices.IndexFunc(*items, func(v T) bool { return *P(&v).key() == id })
	}
	return listOps{
		add: func(raw []byte) (string, error) {
			var v T
			if err := decodeStrict(raw, &v); err != nil {
				return "", fmt.Errorf("decode item: %w", err)
			}
			id := P(&v).key()
			*id = strings.TrimSpace(*id)
			if *id == "" {
				*id = uuid.NewString()
			}
			if indexOf(*id) >= 0 {
				return "", fmt.Errorf("add %q: %w", *id, ErrDuplicateID)
			}
			*items = append(*items, v)
			return *id, nil
		},
		update: func(id string, raw []byte) error {
			idx := indexOf(id)
			if idx < 0 {
				return fmt.Errorf("update %q: %w", id, ErrItemNotFound)
			}
			v := (*items)[idx]
			if err := decodeStrict(raw, &v); err != nil {
				return fmt.Errorf("decode item: %w", err)
			}
			*P(&v).key() = id
			(*items)[idx] = v
			return nil
		},
		remove: func(id string) error {
			idx := indexOf(id)
			if idx < 0 {
				return fmt.Errorf("remove %q: %w", id, ErrItemNotFound)
			}
			*items = slices.Delete(*items, idx, idx+1)
			return nil
		},
		reset: func() { *items = nil },
		assignIDs: func() error {
			seen := make(map[string]struct{}, len(*items))
			for i := range *items {
				id := P(&(*items)[i]).key()
				*id = strings.TrimSpace(*id)
				if *id == "" {
					*id = uuid.NewString()
				}
				if _, dup := seen[*id]; dup {
					return fmt.Errorf("%q: %w", *id, ErrDuplicateID)
				}
				seen[*id] = struct{}{}
			}
			return nil
		},
	}
}

func (d *Data) ops(list List) (listOps, error) {
	switch list {
	case ListExperience:
		return opsFor(&d.Experience), nil
	case ListEducation:
		return opsFor(&d.Education), nil
	case ListProjects:
		return opsFor(&d.Projects), nil
	case ListSkills:
		return opsFor(&d.Skills), nil
	case ListLanguages:
		return opsFor(&d.Languages), nil
	case ListInterests:
		return opsFor(&d.Interests), nil
	default:
		return listOps{}, fmt.Errorf("%q: %w", list, ErrUnknownList)
	}
}

// AddItem decodes an item and appends it to the named list. An empty id is
// replaced with a fresh uuid. The stored id is returned.
func (d *Data) AddItem(list List, raw []byte) (string, error) {
	ops, err := d.ops(list)
	if err != nil {
		return "", err
	}
	return ops.add(raw)
}

// UpdateItem merges raw into the item with the given id. The id itself never
// changes.
func (d *Data) UpdateItem(list List, id string, raw []byte) error {
	ops, err := d.ops(list)
	if err != nil {
		return err
	}
	return ops.update(id, raw)
}

// RemoveItem deletes the item with the given id.
func (d *Data) RemoveItem(list List, id string) error {
	ops, err := d.ops(list)
	if err != nil {
		return err
	}
	return ops.remove(id)
}
