package engine

import "fmt"

// GraphChange says what happened to the scene graph.
type GraphChange int

const (
	NodeAdded GraphChange = iota
	NodeRemoved
)

// GraphEvent is emitted on Scene.Changed for every add and remove.
type GraphEvent struct {
	Change GraphChange
	Node   *Node
}

// Scene holds the node tree plus an O(1) UID index and a cached preorder
// traversal, invalidated only on graph mutation.
type Scene struct {
	Name    string
	Roots   []*Node
	Changed Event[GraphEvent]

	uidMap     map[uint64]*Node
	order      []*Node
	orderDirty bool
}

func NewScene(name string) *Scene {
	return &Scene{
		Name:   name,
		uidMap: make(map[uint64]*Node),
	}
}

// Add registers n (and its subtree) with the scene. Nodes without a parent
// become roots.
func (s *Scene) Add(n *Node) {
	if n.Parent == nil {
		s.Roots = append(s.Roots, n)
	}
	s.register(n)
}

func (s *Scene) register(n *Node) {
	if s.uidMap == nil {
		s.uidMap = make(map[uint64]*Node)
	}
	n.Scene = s
	s.uidMap[n.UID] = n
	for _, c := range n.Children {
		s.register(c)
	}
	s.orderDirty = true
	s.Changed.Emit(GraphEvent{Change: NodeAdded, Node: n})
}

// Remove detaches n from its parent (or the root list) and unregisters the
// whole subtree.
func (s *Scene) Remove(n *Node) {
	if n.Parent != nil {
		n.Parent.RemoveChild(n)
	} else {
		for i, r := range s.Roots {
			if r == n {
				s.Roots = append(s.Roots[:i], s.Roots[i+1:]...)
				break
			}
		}
	}
	s.unregister(n)
}

func (s *Scene) unregister(n *Node) {
	for _, c := range n.Children {
		s.unregister(c)
	}
	delete(s.uidMap, n.UID)
	n.Scene = nil
	s.orderDirty = true
	s.Changed.Emit(GraphEvent{Change: NodeRemoved, Node: n})
}

// FindByUID returns the node with the given UID, or nil.
func (s *Scene) FindByUID(uid uint64) *Node {
	return s.uidMap[uid]
}

func (s *Scene) FindByName(name string) *Node {
	for _, n := range s.Order() {
		if n.Name == name {
			return n
		}
	}
	return nil
}

// FindLightProxy returns the proxy node standing in for the light with the
// given UID, or nil.
func (s *Scene) FindLightProxy(lightUID uint64) *Node {
	for _, n := range s.Order() {
		if n.Kind == KindLightProxy && n.OwnerLight == lightUID {
			return n
		}
	}
	return nil
}

// Order returns the stable preorder traversal of the whole graph. The slice
// is cached and rebuilt only after graph mutation; callers must not retain
// or modify it across mutations.
func (s *Scene) Order() []*Node {
	if s.orderDirty || s.order == nil {
		s.order = s.order[:0]
		for _, r := range s.Roots {
			s.collect(r)
		}
		s.orderDirty = false
	}
	return s.order
}

func (s *Scene) collect(n *Node) {
	s.order = append(s.order, n)
	for _, c := range n.Children {
		s.collect(c)
	}
}

// Walk visits every node preorder until fn returns false.
func (s *Scene) Walk(fn func(*Node) bool) {
	for _, n := range s.Order() {
		if !fn(n) {
			return
		}
	}
}

// Duplicate deep-copies n (fresh UIDs throughout, shared geometry and
// material references) and adds the copy next to the original.
func (s *Scene) Duplicate(n *Node) *Node {
	cp := s.clone(n)
	cp.Name = fmt.Sprintf("%s Copy", n.Name)
	if n.Parent != nil {
		n.Parent.AddChild(cp)
	} else {
		s.Add(cp)
	}
	return cp
}

func (s *Scene) clone(n *Node) *Node {
	cp := NewNode(n.Name, n.Kind)
	cp.Visible = n.Visible
	cp.Selectable = n.Selectable
	cp.Transform = n.Transform
	cp.Geometry = n.Geometry
	cp.Material = n.Material
	cp.Light = n.Light
	cp.LightColor = n.LightColor
	cp.LightRadius = n.LightRadius
	cp.OwnerLight = n.OwnerLight
	cp.TargetUID = n.TargetUID
	if n.Metadata != nil {
		cp.Metadata = make(map[string]any, len(n.Metadata))
		for k, v := range n.Metadata {
			cp.Metadata[k] = v
		}
	}
	for _, c := range n.Children {
		child := s.clone(c)
		child.Parent = cp
		cp.Children = append(cp.Children, child)
	}
	return cp
}
