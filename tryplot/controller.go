package tryplot

// Mode is the interaction state of a plotting session.
type Mode string

const (
	ModeIdle    Mode = "idle"
	ModePlacing Mode = "placing"
	ModeEditing Mode = "editing"
)

// EditBuffer holds the pending quarter and phase while a try is being
// edited. A zero Quarter or empty Phase means nothing is selected.
type EditBuffer struct {
	Quarter int   `json:"quarter"`
	Phase   Phase `json:"phase"`
}

func (b EditBuffer) complete() bool {
	return ValidQuarter(b.Quarter) && b.Phase.Valid()
}

// State is a read-only snapshot of the controller, enough for a host to
// render the toolbar, dialogs and crosshair.
type State struct {
	Mode            Mode        `json:"mode"`
	SelectedType    TryType     `json:"selected_type,omitempty"`
	SelectedTeam    Team        `json:"selected_team"`
	EditingID       string      `json:"editing_id,omitempty"`
	Edit            *EditBuffer `json:"edit,omitempty"`
	Preview         *Point      `json:"preview,omitempty"`
	PreviewZone     Zone        `json:"preview_zone,omitempty"`
	PreviewLabel    string      `json:"preview_label,omitempty"`
	CanStartPlacing bool        `json:"can_start_placing"`
	CanSave         bool        `json:"can_save"`
	Count           int         `json:"count"`
}

// Controller owns a Store and funnels every user interaction through named
// transitions: Idle -> Placing -> Idle on a pitch click, Idle -> Editing ->
// Idle on save, delete or dismiss.
type Controller struct {
	store  *Store
	mapper Mapper

	mode         Mode
	selectedType TryType
	selectedTeam Team

	editingID string
	edit      EditBuffer

	preview *Point
}

type ControllerOption func(*Controller)

func WithMapper(m Mapper) ControllerOption {
	return func(c *Controller) {
		if m.Width > 0 && m.Height > 0 {
			c.mapper = m
		}
	}
}

func NewController(store *Store, opts ...ControllerOption) *Controller {
	if store == nil {
		store = NewStore()
	}
	c := &Controller{
		store:        store,
		mapper:       DefaultMapper(),
		mode:         ModeIdle,
		selectedTeam: TeamHome,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *Controller) Store() *Store   { return c.store }
func (c *Controller) Mapper() Mapper  { return c.mapper }
func (c *Controller) Mode() Mode      { return c.mode }
func (c *Controller) Preview() *Point { return clonePoint(c.preview) }

// SelectType picks the try type for the next placement. It is available
// outside of editing only.
func (c *Controller) SelectType(t TryType) error {
	if !t.Valid() {
		return ErrUnknownTryType
	}
	if c.mode == ModeEditing {
		return ErrBusy
	}
	c.selectedType = t
	return nil
}

func (c *Controller) SelectTeam(team Team) error {
	if !team.Valid() {
		return ErrUnknownTeam
	}
	if c.mode == ModeEditing {
		return ErrBusy
	}
	c.selectedTeam = team
	return nil
}

func (c *Controller) CanStartPlacing() bool {
	return c.mode == ModeIdle && c.selectedType.Valid()
}

// StartPlacing moves Idle -> Placing. Asking again while already placing is
// a no-op.
func (c *Controller) StartPlacing() error {
	switch c.mode {
	case ModePlacing:
		return nil
	case ModeEditing:
		return ErrBusy
	}
	if !c.selectedType.Valid() {
		return ErrNoTypeSelected
	}
	c.mode = ModePlacing
	c.preview = nil
	return nil
}

// CancelPlacing leaves Placing without adding a try.
func (c *Controller) CancelPlacing() error {
	if c.mode != ModePlacing {
		return ErrNotPlacing
	}
	c.toIdle()
	return nil
}

// PointerMove updates the crosshair preview. Moves outside Placing, or over
// a surface with no area, are ignored.
func (c *Controller) PointerMove(clientX, clientY float64, r Rect) {
	if c.mode != ModePlacing {
		return
	}
	p, ok := c.mapper.FromPointer(clientX, clientY, r)
	if !ok {
		return
	}
	c.preview = &p
}

// Click places a try of the selected type and team at the pointer position
// and returns to Idle.
func (c *Controller) Click(clientX, clientY float64, r Rect) (TryEvent, error) {
	if c.mode != ModePlacing {
		return TryEvent{}, ErrNotPlacing
	}
	p, ok := c.mapper.FromPointer(clientX, clientY, r)
	if !ok {
		return TryEvent{}, ErrNoSurface
	}
	ev, err := c.store.Add(p, c.selectedType, c.selectedTeam)
	if err != nil {
		return TryEvent{}, err
	}
	c.toIdle()
	return ev, nil
}

// OpenEditor moves Idle -> Editing for the try with the given id, loading
// its quarter and phase into the edit buffer.
func (c *Controller) OpenEditor(id string) error {
	if c.mode != ModeIdle {
		return ErrBusy
	}
	ev, ok := c.store.Get(id)
	if !ok {
		return ErrTryNotFound
	}
	c.mode = ModeEditing
	c.editingID = id
	c.edit = EditBuffer{Quarter: ev.Quarter, Phase: ev.Phase}
	return nil
}

// SetEditQuarter changes the buffered quarter; 0 clears the selection.
func (c *Controller) SetEditQuarter(q int) error {
	if c.mode != ModeEditing {
		return ErrNotEditing
	}
	if q != 0 && !ValidQuarter(q) {
		return ErrInvalidQuarter
	}
	c.edit.Quarter = q
	return nil
}

// SetEditPhase changes the buffered phase; "" clears the selection.
func (c *Controller) SetEditPhase(p Phase) error {
	if c.mode != ModeEditing {
		return ErrNotEditing
	}
	if p != "" && !p.Valid() {
		return ErrUnknownPhase
	}
	c.edit.Phase = p
	return nil
}

func (c *Controller) CanSave() bool {
	return c.mode == ModeEditing && c.edit.complete()
}

// SaveEdit writes the edit buffer into the store and returns to Idle.
func (c *Controller) SaveEdit() (TryEvent, error) {
	if c.mode != ModeEditing {
		return TryEvent{}, ErrNotEditing
	}
	if !c.edit.complete() {
		return TryEvent{}, ErrEditIncomplete
	}
	ev, err := c.store.Update(c.editingID, c.edit.Quarter, c.edit.Phase)
	if err != nil {
		return TryEvent{}, err
	}
	c.toIdle()
	return ev, nil
}

// DeleteEditing removes the try being edited and returns to Idle.
func (c *Controller) DeleteEditing() error {
	if c.mode != ModeEditing {
		return ErrNotEditing
	}
	c.store.Remove(c.editingID)
	c.toIdle()
	return nil
}

// DismissEdit discards the edit buffer and returns to Idle.
func (c *Controller) DismissEdit() error {
	if c.mode != ModeEditing {
		return ErrNotEditing
	}
	c.toIdle()
	return nil
}

// Clear removes every try and returns to Idle from any state.
func (c *Controller) Clear() int {
	n := c.store.Clear()
	c.toIdle()
	return n
}

// Restore replaces the store contents and returns to Idle. The store is left
// untouched when any event is rejected.
func (c *Controller) Restore(events []TryEvent) error {
	if err := c.store.Restore(events); err != nil {
		return err
	}
	c.toIdle()
	return nil
}

func (c *Controller) Tries() []TryEvent {
	return c.store.All()
}

func (c *Controller) Summary() Summary {
	return Summarize(c.store.All())
}

func (c *Controller) State() State {
	st := State{
		Mode:            c.mode,
		SelectedType:    c.selectedType,
		SelectedTeam:    c.selectedTeam,
		Preview:         clonePoint(c.preview),
		CanStartPlacing: c.CanStartPlacing(),
		CanSave:         c.CanSave(),
		Count:           c.store.Len(),
	}
	if c.preview != nil {
		st.PreviewZone = ClassifyZone(c.preview.Y)
		st.PreviewLabel = st.PreviewZone.Label()
	}
	if c.mode == ModeEditing {
		buf := c.edit
		st.EditingID = c.editingID
		st.Edit = &buf
	}
	return st
}

// toIdle is the single exit from Placing and Editing; it drops the preview
// and the edit buffer.
func (c *Controller) toIdle() {
	c.mode = ModeIdle
	c.preview = nil
	c.editingID = ""
	c.edit = EditBuffer{}
}

func clonePoint(p *Point) *Point {
	if p == nil {
		return nil
	}
	cp := *p
	return &cp
}
