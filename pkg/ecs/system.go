package ecs

import (
	"reflect"
	"time"
)

// System is a unit of game logic run by a SystemGroup. Init is called once when the system is
// added to a group, Update once per world update that selects the group.
type System interface {
	Init(w *World)
	Update(now, dt time.Duration)
}

// Shutdowner is implemented by systems that hold resources in the world, such as index
// subscriptions. Shutdown is called when the system is removed from its group.
type Shutdowner interface {
	Shutdown()
}

// SystemMask selects groups in World.Update. A group runs when its mask intersects the mask passed
// to Update.
type SystemMask uint64

// AllSystems selects every group.
const AllSystems = ^SystemMask(0)

// systemType returns the type a system is identified by within a group. Entity systems are
// identified by their processor so that two entity systems with different processors can coexist.
func systemType(s System) reflect.Type {
	if es, ok := s.(*EntitySystem); ok {
		return reflect.TypeOf(es.proc)
	}
	return reflect.TypeOf(s)
}
