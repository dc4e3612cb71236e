package snapshot

import (
	"slices"

	"github.com/argus-labs/reactor/pkg/ecs"
	"github.com/goccy/go-json"
	"github.com/rotisserie/eris"
)

type worldRecord struct {
	Entities []entityRecord `json:"entities"`
}

type entityRecord struct {
	ID         string            `json:"id"`
	Disabled   bool              `json:"disabled,omitempty"`
	Components []componentRecord `json:"components"`
}

type componentRecord struct {
	Name     string          `json:"name"`
	Disabled bool            `json:"disabled,omitempty"`
	Data     json.RawMessage `json:"data"`
}

// Encode serializes every serializable entity that isn't scheduled for removal, ordered by ID.
// Components are stored by name with their exported fields as JSON.
func Encode(w *ecs.World) ([]byte, error) {
	entities := make([]*ecs.Entity, 0, w.EntityCount())
	for e := range w.Entities() {
		if e.Serializable() && !e.Removed() {
			entities = append(entities, e)
		}
	}
	slices.SortFunc(entities, func(a, b *ecs.Entity) int { return a.ID().Compare(b.ID()) })

	record := worldRecord{Entities: make([]entityRecord, 0, len(entities))}
	for _, e := range entities {
		er := entityRecord{
			ID:         e.ID().String(),
			Disabled:   !e.Enabled(),
			Components: make([]componentRecord, 0, e.Len()),
		}
		for _, c := range e.Components() {
			data, err := json.Marshal(c)
			if err != nil {
				return nil, eris.Wrapf(err, "failed to marshal component %s of entity %s", c.Name(), e.ID())
			}
			er.Components = append(er.Components, componentRecord{
				Name:     c.Name(),
				Disabled: !c.Enabled(),
				Data:     data,
			})
		}
		record.Entities = append(record.Entities, er)
	}

	data, err := json.Marshal(record)
	if err != nil {
		return nil, eris.Wrap(err, "failed to marshal world")
	}
	return data, nil
}

// Decode adds the entities in data to w. Component types must already be registered with the
// world's registry. Either every entity is added or, on error, none is.
func Decode(w *ecs.World, data []byte) error {
	var record worldRecord
	if err := json.Unmarshal(data, &record); err != nil {
		return eris.Wrap(err, "failed to unmarshal world")
	}

	reg := w.Registry()
	entities := make([]*ecs.Entity, 0, len(record.Entities))
	seen := make(map[ecs.EntityID]struct{}, len(record.Entities))
	for _, er := range record.Entities {
		id, err := ecs.ParseEntityID(er.ID)
		if err != nil {
			return err
		}
		if id.IsZero() {
			return eris.New("snapshot contains the zero entity id")
		}
		if _, exists := w.FindEntity(id); exists {
			return eris.Wrapf(ecs.ErrEntityExists, "entity %s", id)
		}
		if _, dup := seen[id]; dup {
			return eris.Errorf("entity %s appears twice in snapshot", id)
		}
		seen[id] = struct{}{}

		e := w.NewEntity(id)
		for _, cr := range er.Components {
			cid, err := reg.ID(cr.Name)
			if err != nil {
				return eris.Wrapf(err, "entity %s", id)
			}
			c, err := reg.New(cr.Name)
			if err != nil {
				return err
			}
			if err = json.Unmarshal(cr.Data, c); err != nil {
				return eris.Wrapf(err, "failed to unmarshal component %s of entity %s", cr.Name, id)
			}
			if _, dup := e.ComponentByID(cid); dup {
				return eris.Errorf("component %s appears twice on entity %s", cr.Name, id)
			}
			ecs.AttachComponent(e, c)
			if cr.Disabled {
				ecs.SetComponentEnabledByID(e, cid, false)
			}
		}
		e.SetEnabled(!er.Disabled)
		entities = append(entities, e)
	}

	for _, e := range entities {
		w.AddEntity(e)
	}
	return nil
}
