package instance

import (
	"testing"

	"github.com/duskrealm/mudforge/internal/model"
)

func TestManager_TrackAndRemoveMobile(t *testing.T) {
	im := New()
	tmpl := &model.MobileTemplate{Vnum: 1000, Keywords: "guard"}
	mob := model.NewMobileInstance(model.CharID(im.NextID()), tmpl, 3001)
	im.TrackMobile(mob)

	if got := im.FindMobile(mob.ID()); got != mob {
		t.Fatalf("FindMobile did not return tracked mobile")
	}
	if !im.RemoveMobile(mob.ID()) {
		t.Error("RemoveMobile on a tracked id should report prior presence")
	}
	if im.RemoveMobile(mob.ID()) {
		t.Error("RemoveMobile twice should report no prior presence the second time")
	}
}

func TestManager_MobilesInRoomAndZone(t *testing.T) {
	im := New()
	tmpl := &model.MobileTemplate{Vnum: 1000}

	a := model.NewMobileInstance(model.CharID(im.NextID()), tmpl, 3001)
	b := model.NewMobileInstance(model.CharID(im.NextID()), tmpl, 3001)
	c := model.NewMobileInstance(model.CharID(im.NextID()), tmpl, 3105) // zone 31

	im.TrackMobile(a)
	im.TrackMobile(b)
	im.TrackMobile(c)

	inRoom := im.MobilesInRoom(3001)
	if len(inRoom) != 2 {
		t.Fatalf("MobilesInRoom(3001) = %d mobiles, want 2", len(inRoom))
	}

	inZone30 := im.MobilesInZone(30)
	if len(inZone30) != 2 {
		t.Fatalf("MobilesInZone(30) = %d mobiles, want 2", len(inZone30))
	}
	inZone31 := im.MobilesInZone(31)
	if len(inZone31) != 1 {
		t.Fatalf("MobilesInZone(31) = %d mobiles, want 1", len(inZone31))
	}
}

// CountOfMobileTemplate only counts active instances, so a reset
// engine's existence cap doesn't get fooled by stale/dead instances
// still sitting in the map momentarily.
func TestManager_CountOfTemplate_IgnoresInactive(t *testing.T) {
	im := New()
	tmpl := &model.MobileTemplate{Vnum: 1000}

	alive := model.NewMobileInstance(model.CharID(im.NextID()), tmpl, 3001)
	dead := model.NewMobileInstance(model.CharID(im.NextID()), tmpl, 3001)
	dead.Active = false

	im.TrackMobile(alive)
	im.TrackMobile(dead)

	if got := im.CountOfMobileTemplate(1000); got != 1 {
		t.Fatalf("CountOfMobileTemplate(1000) = %d, want 1 (inactive excluded)", got)
	}
}

func TestManager_SweepRemovesInactiveOnly(t *testing.T) {
	im := New()
	tmpl := &model.MobileTemplate{Vnum: 1000}

	alive := model.NewMobileInstance(model.CharID(im.NextID()), tmpl, 3001)
	dead := model.NewMobileInstance(model.CharID(im.NextID()), tmpl, 3001)
	dead.Active = false
	im.TrackMobile(alive)
	im.TrackMobile(dead)

	if n := im.SweepMobiles(); n != 1 {
		t.Fatalf("SweepMobiles() removed %d, want 1", n)
	}
	if im.FindMobile(alive.ID()) == nil {
		t.Error("sweep removed a still-active mobile")
	}
	if im.FindMobile(dead.ID()) != nil {
		t.Error("sweep left an inactive mobile tracked")
	}
}

func TestManager_ObjectTracking(t *testing.T) {
	im := New()
	tmpl := &model.ObjectTemplate{Vnum: 2000}
	obj := model.NewObjectInstance(im.NextID(), tmpl)
	obj.SetLocation(model.InRoom, 3001)
	im.TrackObject(obj)

	inRoom := im.ObjectsInRoom(3001)
	if len(inRoom) != 1 || inRoom[0].InstanceID != obj.InstanceID {
		t.Fatalf("ObjectsInRoom(3001) = %+v", inRoom)
	}
	if im.CountOfObjectTemplate(2000) != 1 {
		t.Errorf("CountOfObjectTemplate(2000) = %d, want 1", im.CountOfObjectTemplate(2000))
	}
	if !im.RemoveObject(obj.InstanceID) {
		t.Error("RemoveObject should report prior presence")
	}
}

func TestManager_NextID_NeverRepeats(t *testing.T) {
	im := New()
	seen := make(map[uint64]bool)
	for i := 0; i < 1000; i++ {
		id := im.NextID()
		if seen[id] {
			t.Fatalf("NextID produced a duplicate: %d", id)
		}
		seen[id] = true
	}
}
