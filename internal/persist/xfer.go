// Package persist implements the versioned binary transfer protocol for
// Pathfinder/Path/Locomotor save state, plus a Postgres-backed repository
// for durable world deltas that must survive a server restart. The wire
// format: a leading version/type tag, little-endian fields in declared
// order, explicit length checks on every read.
package persist

import (
	"encoding/binary"
	"fmt"
	"io"

	"github.com/ironveil/pathcore/internal/geocore"
	"github.com/ironveil/pathcore/internal/locomotor"
)

const (
	pathfinderVersion = 1
	pathVersion       = 1
	templateVersion   = 1
	locomotorVersion  = 1
)

func writeString(w io.Writer, s string) error {
	if err := binary.Write(w, binary.LittleEndian, uint16(len(s))); err != nil {
		return err
	}
	_, err := io.WriteString(w, s)
	return err
}

func readString(r io.Reader) (string, error) {
	var n uint16
	if err := binary.Read(r, binary.LittleEndian, &n); err != nil {
		return "", err
	}
	buf := make([]byte, n)
	if _, err := io.ReadFull(r, buf); err != nil {
		return "", err
	}
	return string(buf), nil
}

func writeBool(w io.Writer, b bool) error {
	var v byte
	if b {
		v = 1
	}
	return binary.Write(w, binary.LittleEndian, v)
}

func readBool(r io.Reader) (bool, error) {
	var v byte
	if err := binary.Read(r, binary.LittleEndian, &v); err != nil {
		return false, err
	}
	return v != 0, nil
}

// PathfinderState is the persisted shape of one Pathfinder, excluding
// every rebuilt-at-load search structure (pool contents, open/closed
// lists, cached projections).
type PathfinderState struct {
	ExtentW, ExtentH int32
	MapReady         bool
	Tunneling        bool
	IgnoreObstacleID geocore.EntityID
	WallPieceIDs     []int32
	WallHeight       float32
	CellCounter      int64
	QueueRing        []geocore.EntityID
	QueueHead        int
	QueueCount       int
}

// WritePathfinder encodes pf's persisted fields. The wall-piece array is
// written element by element up to its live length — never a fixed
// bound — closing the out-of-bounds save-path bug noted for the source
// engine's m_wallPieces[MAX_WALL_PIECES] loop.
func WritePathfinder(w io.Writer, pf *geocore.Pathfinder) error {
	if err := binary.Write(w, binary.LittleEndian, uint16(pathfinderVersion)); err != nil {
		return err
	}
	extentW, extentH := pf.Extent()
	for _, v := range []int32{extentW, extentH} {
		if err := binary.Write(w, binary.LittleEndian, v); err != nil {
			return err
		}
	}
	if err := writeBool(w, pf.MapReady); err != nil {
		return err
	}
	if err := writeBool(w, pf.Tunneling); err != nil {
		return err
	}
	if err := binary.Write(w, binary.LittleEndian, pf.IgnoreObstacleID); err != nil {
		return err
	}
	if err := binary.Write(w, binary.LittleEndian, uint32(len(pf.WallPieceIDs))); err != nil {
		return err
	}
	for i := range pf.WallPieceIDs {
		if err := binary.Write(w, binary.LittleEndian, pf.WallPieceIDs[i]); err != nil {
			return err
		}
	}
	if err := binary.Write(w, binary.LittleEndian, pf.WallHeight); err != nil {
		return err
	}
	if err := binary.Write(w, binary.LittleEndian, pf.CellCounter); err != nil {
		return err
	}

	ring, head, count := pf.Queue.Snapshot()
	if err := binary.Write(w, binary.LittleEndian, uint32(len(ring))); err != nil {
		return err
	}
	for i := range ring {
		if err := binary.Write(w, binary.LittleEndian, ring[i]); err != nil {
			return err
		}
	}
	if err := binary.Write(w, binary.LittleEndian, int32(head)); err != nil {
		return err
	}
	if err := binary.Write(w, binary.LittleEndian, int32(count)); err != nil {
		return err
	}
	return nil
}

// ReadPathfinder decodes a PathfinderState written by WritePathfinder.
func ReadPathfinder(r io.Reader) (*PathfinderState, error) {
	var version uint16
	if err := binary.Read(r, binary.LittleEndian, &version); err != nil {
		return nil, fmt.Errorf("persist: reading pathfinder version: %w", err)
	}
	if version != pathfinderVersion {
		return nil, fmt.Errorf("persist: unsupported pathfinder version %d", version)
	}

	st := &PathfinderState{}
	if err := binary.Read(r, binary.LittleEndian, &st.ExtentW); err != nil {
		return nil, err
	}
	if err := binary.Read(r, binary.LittleEndian, &st.ExtentH); err != nil {
		return nil, err
	}
	var err error
	if st.MapReady, err = readBool(r); err != nil {
		return nil, err
	}
	if st.Tunneling, err = readBool(r); err != nil {
		return nil, err
	}
	if err := binary.Read(r, binary.LittleEndian, &st.IgnoreObstacleID); err != nil {
		return nil, err
	}

	var wallCount uint32
	if err := binary.Read(r, binary.LittleEndian, &wallCount); err != nil {
		return nil, err
	}
	st.WallPieceIDs = make([]int32, wallCount)
	for i := range st.WallPieceIDs {
		if err := binary.Read(r, binary.LittleEndian, &st.WallPieceIDs[i]); err != nil {
			return nil, fmt.Errorf("persist: reading wall piece %d: %w", i, err)
		}
	}
	if err := binary.Read(r, binary.LittleEndian, &st.WallHeight); err != nil {
		return nil, err
	}
	if err := binary.Read(r, binary.LittleEndian, &st.CellCounter); err != nil {
		return nil, err
	}

	var ringLen uint32
	if err := binary.Read(r, binary.LittleEndian, &ringLen); err != nil {
		return nil, err
	}
	st.QueueRing = make([]geocore.EntityID, ringLen)
	for i := range st.QueueRing {
		if err := binary.Read(r, binary.LittleEndian, &st.QueueRing[i]); err != nil {
			return nil, fmt.Errorf("persist: reading queue entry %d: %w", i, err)
		}
	}
	var head, count int32
	if err := binary.Read(r, binary.LittleEndian, &head); err != nil {
		return nil, err
	}
	if err := binary.Read(r, binary.LittleEndian, &count); err != nil {
		return nil, err
	}
	st.QueueHead, st.QueueCount = int(head), int(count)
	return st, nil
}

// ApplyPathfinder restores st's flags/counters/queue onto an already
// constructed pf of matching extent. Grid contents are not touched here
// — the caller is expected to have classified terrain separately, since
// cell data is never part of the versioned snapshot.
func ApplyPathfinder(pf *geocore.Pathfinder, st *PathfinderState) error {
	extentW, extentH := pf.Extent()
	if st.ExtentW != extentW || st.ExtentH != extentH {
		return fmt.Errorf("persist: extent mismatch: pathfinder is %dx%d, snapshot is %dx%d",
			extentW, extentH, st.ExtentW, st.ExtentH)
	}
	pf.MapReady = st.MapReady
	pf.Tunneling = st.Tunneling
	pf.IgnoreObstacleID = st.IgnoreObstacleID
	pf.WallPieceIDs = st.WallPieceIDs
	pf.WallHeight = st.WallHeight
	pf.CellCounter = st.CellCounter
	pf.Queue.Restore(st.QueueRing, st.QueueHead, st.QueueCount)
	return nil
}

// PathNodeState is one persisted Path waypoint, written tail-first with
// a stable integer id so NextOptimizedID survives the round trip without
// a live pointer.
type PathNodeState struct {
	ID              int32
	Pos             geocore.WorldPos
	Layer           geocore.LayerID
	CanOptimize     bool
	NextOptimizedID int32 // -1 if none
}

// PathState is the persisted shape of one Path.
type PathState struct {
	Nodes         []PathNodeState
	IsOptimized   bool
	BlockedByAlly bool
}

// WritePath encodes p tail-first: stable ids are assigned head-to-tail
// in-memory first so NextOptimizedID references resolve, then nodes are
// serialized from tail to head per the persisted layout.
func WritePath(w io.Writer, p *geocore.Path) error {
	if err := binary.Write(w, binary.LittleEndian, uint16(pathVersion)); err != nil {
		return err
	}

	ids := make(map[*geocore.PathNode]int32)
	var ordered []*geocore.PathNode
	for n := p.Head(); n != nil; n = n.Next() {
		ids[n] = int32(len(ordered))
		ordered = append(ordered, n)
	}

	if err := binary.Write(w, binary.LittleEndian, uint32(len(ordered))); err != nil {
		return err
	}
	for i := len(ordered) - 1; i >= 0; i-- {
		n := ordered[i]
		nextOpt := int32(-1)
		if n.NextOptimized() != nil {
			nextOpt = ids[n.NextOptimized()]
		}
		if err := binary.Write(w, binary.LittleEndian, ids[n]); err != nil {
			return err
		}
		if err := binary.Write(w, binary.LittleEndian, n.Pos); err != nil {
			return err
		}
		if err := binary.Write(w, binary.LittleEndian, n.Layer); err != nil {
			return err
		}
		if err := writeBool(w, n.CanOptimize); err != nil {
			return err
		}
		if err := binary.Write(w, binary.LittleEndian, nextOpt); err != nil {
			return err
		}
	}
	if err := writeBool(w, p.IsOptimized); err != nil {
		return err
	}
	return writeBool(w, p.BlockedByAlly)
}

// ReadPath decodes a PathState written by WritePath.
func ReadPath(r io.Reader) (*PathState, error) {
	var version uint16
	if err := binary.Read(r, binary.LittleEndian, &version); err != nil {
		return nil, fmt.Errorf("persist: reading path version: %w", err)
	}
	if version != pathVersion {
		return nil, fmt.Errorf("persist: unsupported path version %d", version)
	}

	var count uint32
	if err := binary.Read(r, binary.LittleEndian, &count); err != nil {
		return nil, err
	}
	nodes := make([]PathNodeState, count)
	for i := range nodes {
		var n PathNodeState
		if err := binary.Read(r, binary.LittleEndian, &n.ID); err != nil {
			return nil, fmt.Errorf("persist: reading path node %d: %w", i, err)
		}
		if err := binary.Read(r, binary.LittleEndian, &n.Pos); err != nil {
			return nil, err
		}
		if err := binary.Read(r, binary.LittleEndian, &n.Layer); err != nil {
			return nil, err
		}
		var err error
		if n.CanOptimize, err = readBool(r); err != nil {
			return nil, err
		}
		if err := binary.Read(r, binary.LittleEndian, &n.NextOptimizedID); err != nil {
			return nil, err
		}
		nodes[i] = n
	}
	st := &PathState{Nodes: nodes}
	var err error
	if st.IsOptimized, err = readBool(r); err != nil {
		return nil, err
	}
	if st.BlockedByAlly, err = readBool(r); err != nil {
		return nil, err
	}
	return st, nil
}

// BuildPath reconstructs a geocore.Path from a decoded PathState. The
// raw node chain and CanOptimize flags are restored exactly; the
// nextOptimized shortcut chain is recomputed by the caller via
// Path.Optimize rather than replayed from NextOptimizedID, since
// reapplying it against live terrain is cheap and guaranteed consistent
// with the grid the path is being restored into.
func BuildPath(st *PathState) *geocore.Path {
	nodes := make([]geocore.PathNode, len(st.Nodes))
	byID := make(map[int32]int, len(st.Nodes))
	for i, n := range st.Nodes {
		byID[n.ID] = i
		nodes[i] = geocore.PathNode{Pos: n.Pos, Layer: n.Layer, CanOptimize: n.CanOptimize}
	}
	// Nodes were written tail-first; geocore.NewPath expects head-first.
	reversed := make([]geocore.PathNode, len(nodes))
	for i, n := range nodes {
		reversed[len(nodes)-1-i] = n
	}
	p := geocore.NewPath(reversed)
	p.IsOptimized = st.IsOptimized
	p.BlockedByAlly = st.BlockedByAlly
	return p
}

// TemplateState mirrors locomotor.Template field for field, for durable
// storage of a LocomotorStore independent of the YAML config path.
type TemplateState struct {
	Name                        string
	Appearance                  geocore.Appearance
	ZBehavior                   geocore.ZBehavior
	MaxSpeed, MaxSpeedDamaged   float32
	Acceleration, Braking, Lift float32
	TurnRate, TurnRateDamaged   float32
	TurnPivotOffset             float32
	PitchCoefficient            float32
	RollCoefficient             float32
	PreferredZ                  float32
	CloseEnoughDist             float32
	CloseEnoughIs3D             bool
	NoSlowDownAsApproachingDest bool
	SuspensionStiffness         float32
	WanderWidthFactor           float32
	WanderLengthFactor          float32
}

// WriteTemplate encodes t in declared-field order.
func WriteTemplate(w io.Writer, t *locomotor.Template) error {
	if err := binary.Write(w, binary.LittleEndian, uint16(templateVersion)); err != nil {
		return err
	}
	if err := writeString(w, t.Name); err != nil {
		return err
	}
	fields := []any{
		t.Appearance, t.ZBehavior,
		t.MaxSpeed, t.MaxSpeedDamaged, t.Acceleration, t.Braking, t.Lift,
		t.TurnRate, t.TurnRateDamaged, t.TurnPivotOffset,
		t.PitchCoefficient, t.RollCoefficient, t.PreferredZ,
		t.CloseEnoughDist,
	}
	for _, f := range fields {
		if err := binary.Write(w, binary.LittleEndian, f); err != nil {
			return err
		}
	}
	if err := writeBool(w, t.CloseEnoughIs3D); err != nil {
		return err
	}
	if err := writeBool(w, t.NoSlowDownAsApproachingDest); err != nil {
		return err
	}
	tail := []any{t.SuspensionStiffness, t.WanderWidthFactor, t.WanderLengthFactor}
	for _, f := range tail {
		if err := binary.Write(w, binary.LittleEndian, f); err != nil {
			return err
		}
	}
	return nil
}

// ReadTemplate decodes a *locomotor.Template written by WriteTemplate.
func ReadTemplate(r io.Reader) (*locomotor.Template, error) {
	var version uint16
	if err := binary.Read(r, binary.LittleEndian, &version); err != nil {
		return nil, fmt.Errorf("persist: reading template version: %w", err)
	}
	if version != templateVersion {
		return nil, fmt.Errorf("persist: unsupported template version %d", version)
	}
	name, err := readString(r)
	if err != nil {
		return nil, err
	}
	t := &locomotor.Template{Name: name}
	numeric := []any{
		&t.Appearance, &t.ZBehavior,
		&t.MaxSpeed, &t.MaxSpeedDamaged, &t.Acceleration, &t.Braking, &t.Lift,
		&t.TurnRate, &t.TurnRateDamaged, &t.TurnPivotOffset,
		&t.PitchCoefficient, &t.RollCoefficient, &t.PreferredZ,
		&t.CloseEnoughDist,
	}
	for _, f := range numeric {
		if err := binary.Read(r, binary.LittleEndian, f); err != nil {
			return nil, err
		}
	}
	if t.CloseEnoughIs3D, err = readBool(r); err != nil {
		return nil, err
	}
	if t.NoSlowDownAsApproachingDest, err = readBool(r); err != nil {
		return nil, err
	}
	tail := []any{&t.SuspensionStiffness, &t.WanderWidthFactor, &t.WanderLengthFactor}
	for _, f := range tail {
		if err := binary.Read(r, binary.LittleEndian, f); err != nil {
			return nil, err
		}
	}
	return t, nil
}

// WriteLocomotorStore encodes every template in s.
func WriteLocomotorStore(w io.Writer, s *locomotor.Store) error {
	names := s.Names()
	if err := binary.Write(w, binary.LittleEndian, uint32(len(names))); err != nil {
		return err
	}
	for _, name := range names {
		tmpl, ok := s.Get(name)
		if !ok {
			continue
		}
		if err := WriteTemplate(w, tmpl); err != nil {
			return fmt.Errorf("persist: writing template %q: %w", name, err)
		}
	}
	return nil
}

// ReadLocomotorStore decodes templates written by WriteLocomotorStore
// into a fresh *locomotor.Store.
func ReadLocomotorStore(r io.Reader) (*locomotor.Store, error) {
	var count uint32
	if err := binary.Read(r, binary.LittleEndian, &count); err != nil {
		return nil, err
	}
	s := locomotor.NewStore()
	for i := uint32(0); i < count; i++ {
		tmpl, err := ReadTemplate(r)
		if err != nil {
			return nil, fmt.Errorf("persist: reading template %d: %w", i, err)
		}
		s.Put(tmpl)
	}
	return s, nil
}

// LocomotorState is the persisted shape of one Locomotor: its flags and
// a reference to the template it should rebind to, rather than the
// template's own values (those travel separately via LocomotorStore).
type LocomotorState struct {
	EntityID             geocore.EntityID
	TemplateName         string
	PreciseZ             bool
	UltraAccurate        bool
	MovingBackwards      bool
	Climbing             bool
	AllowInvalidPosition bool
	CloseEnoughIs3D      bool
	Damaged              bool
	HasMaintainPos       bool
	MaintainPos          geocore.WorldPos
	DonutTimer           float32
	HasMaxSpeedOverride  bool
	MaxSpeedOverride     float32
	HasTurnRateOverride  bool
	TurnRateOverride     float32
}

// WriteLocomotor encodes l's flags and template reference.
func WriteLocomotor(w io.Writer, l *locomotor.Locomotor) error {
	if err := binary.Write(w, binary.LittleEndian, uint16(locomotorVersion)); err != nil {
		return err
	}
	if err := binary.Write(w, binary.LittleEndian, l.EntityID); err != nil {
		return err
	}
	if err := writeString(w, l.Template.Name); err != nil {
		return err
	}
	flags := []bool{
		l.PreciseZ, l.UltraAccurate, l.MovingBackwards, l.Climbing,
		l.AllowInvalidPosition, l.CloseEnoughIs3D, l.Damaged,
	}
	for _, f := range flags {
		if err := writeBool(w, f); err != nil {
			return err
		}
	}
	if err := writeBool(w, l.MaintainPos != nil); err != nil {
		return err
	}
	if l.MaintainPos != nil {
		if err := binary.Write(w, binary.LittleEndian, *l.MaintainPos); err != nil {
			return err
		}
	}
	if err := binary.Write(w, binary.LittleEndian, l.DonutTimer); err != nil {
		return err
	}
	if err := writeBool(w, l.MaxSpeedOverride() != nil); err != nil {
		return err
	}
	if v := l.MaxSpeedOverride(); v != nil {
		if err := binary.Write(w, binary.LittleEndian, *v); err != nil {
			return err
		}
	}
	if err := writeBool(w, l.TurnRateOverride() != nil); err != nil {
		return err
	}
	if v := l.TurnRateOverride(); v != nil {
		if err := binary.Write(w, binary.LittleEndian, *v); err != nil {
			return err
		}
	}
	return nil
}

// ReadLocomotor decodes a LocomotorState written by WriteLocomotor.
func ReadLocomotor(r io.Reader) (*LocomotorState, error) {
	var version uint16
	if err := binary.Read(r, binary.LittleEndian, &version); err != nil {
		return nil, fmt.Errorf("persist: reading locomotor version: %w", err)
	}
	if version != locomotorVersion {
		return nil, fmt.Errorf("persist: unsupported locomotor version %d", version)
	}
	st := &LocomotorState{}
	if err := binary.Read(r, binary.LittleEndian, &st.EntityID); err != nil {
		return nil, err
	}
	var err error
	if st.TemplateName, err = readString(r); err != nil {
		return nil, err
	}
	flagPtrs := []*bool{
		&st.PreciseZ, &st.UltraAccurate, &st.MovingBackwards, &st.Climbing,
		&st.AllowInvalidPosition, &st.CloseEnoughIs3D, &st.Damaged,
	}
	for _, p := range flagPtrs {
		if *p, err = readBool(r); err != nil {
			return nil, err
		}
	}
	if st.HasMaintainPos, err = readBool(r); err != nil {
		return nil, err
	}
	if st.HasMaintainPos {
		if err := binary.Read(r, binary.LittleEndian, &st.MaintainPos); err != nil {
			return nil, err
		}
	}
	if err := binary.Read(r, binary.LittleEndian, &st.DonutTimer); err != nil {
		return nil, err
	}
	if st.HasMaxSpeedOverride, err = readBool(r); err != nil {
		return nil, err
	}
	if st.HasMaxSpeedOverride {
		if err := binary.Read(r, binary.LittleEndian, &st.MaxSpeedOverride); err != nil {
			return nil, err
		}
	}
	if st.HasTurnRateOverride, err = readBool(r); err != nil {
		return nil, err
	}
	if st.HasTurnRateOverride {
		if err := binary.Read(r, binary.LittleEndian, &st.TurnRateOverride); err != nil {
			return nil, err
		}
	}
	return st, nil
}

// ApplyLocomotor rebinds l to the template named in st (looked up from
// store) and restores its flags.
func ApplyLocomotor(l *locomotor.Locomotor, store *locomotor.Store, st *LocomotorState) error {
	tmpl, ok := store.Get(st.TemplateName)
	if !ok {
		return fmt.Errorf("persist: template %q not found in store", st.TemplateName)
	}
	l.SetTemplate(tmpl)
	l.PreciseZ = st.PreciseZ
	l.UltraAccurate = st.UltraAccurate
	l.MovingBackwards = st.MovingBackwards
	l.Climbing = st.Climbing
	l.AllowInvalidPosition = st.AllowInvalidPosition
	l.CloseEnoughIs3D = st.CloseEnoughIs3D
	l.Damaged = st.Damaged
	l.DonutTimer = st.DonutTimer
	if st.HasMaintainPos {
		pos := st.MaintainPos
		l.MaintainPos = &pos
	} else {
		l.MaintainPos = nil
	}
	if st.HasMaxSpeedOverride {
		v := st.MaxSpeedOverride
		l.OverrideMaxSpeed(&v)
	} else {
		l.OverrideMaxSpeed(nil)
	}
	if st.HasTurnRateOverride {
		v := st.TurnRateOverride
		l.OverrideTurnRate(&v)
	} else {
		l.OverrideTurnRate(nil)
	}
	return nil
}
