package http

import (
	"encoding/json"
	"testing"

	"github.com/ssshpaklevka/deliv-ad/internal/model"
)

func TestCountAssembly(t *testing.T) {
	items := []model.AssemblyListItem{
		{AssemblyStatus: model.AssemblyPending},
		{AssemblyStatus: model.AssemblyPending},
		{AssemblyStatus: model.AssemblyInProgress},
		{AssemblyStatus: model.AssemblyCompleted},
		{AssemblyStatus: model.AssemblyCancelled},
	}
	sum := countAssembly(items)
	if sum.Pending != 2 || sum.InProgress != 1 || sum.Completed != 1 || sum.Cancelled != 1 {
		t.Fatalf("unexpected summary: %+v", sum)
	}
	if sum.Total != 5 {
		t.Fatalf("total = %d, want 5", sum.Total)
	}
}

func TestCountDelivery(t *testing.T) {
	items := []model.DeliveryListItem{
		{DeliveryStatus: model.DeliveryPending},
		{DeliveryStatus: model.DeliveryExpectation},
		{DeliveryStatus: model.DeliveryExpectation},
		{DeliveryStatus: model.DeliveryCompleted},
	}
	sum := countDelivery(items)
	if sum.Pending != 1 || sum.Expectation != 2 || sum.Completed != 1 || sum.Total != 4 {
		t.Fatalf("unexpected summary: %+v", sum)
	}
}

func TestCountWorkersSkipsDeleted(t *testing.T) {
	users := []model.User{
		{Role: model.RoleAdmin},
		{Role: model.RoleCourier},
		{Role: model.RoleCourier, IsDeleted: true},
		{Role: model.RoleWorker},
	}
	sum := countWorkers(users)
	if sum.Admin != 1 || sum.Courier != 1 || sum.Worker != 1 || sum.Total != 3 {
		t.Fatalf("unexpected summary: %+v", sum)
	}
}

func TestOptionalIntShapes(t *testing.T) {
	cases := []struct {
		in    string
		set   bool
		value int
	}{
		{`12`, true, 12},
		{`"34"`, true, 34},
		{`" 7 "`, true, 7},
		{`null`, false, 0},
		{`""`, false, 0},
	}
	for _, tc := range cases {
		var o optionalInt
		if err := json.Unmarshal([]byte(tc.in), &o); err != nil {
			t.Fatalf("unmarshal %s: %v", tc.in, err)
		}
		if o.Set != tc.set || o.Value != tc.value {
			t.Fatalf("unmarshal %s: got set=%v value=%d", tc.in, o.Set, o.Value)
		}
	}

	var o optionalInt
	if err := json.Unmarshal([]byte(`"floor two"`), &o); err == nil {
		t.Fatal("expected error for non numeric string")
	}
}

func TestOptionalIntPtr(t *testing.T) {
	var unset optionalInt
	if unset.ptr() != nil {
		t.Fatal("unset value must map to nil")
	}
	set := optionalInt{Set: true, Value: 5}
	p := set.ptr()
	if p == nil || *p != 5 {
		t.Fatalf("ptr = %v", p)
	}
}

func TestDeviceNameFromUserAgent(t *testing.T) {
	if got := deviceNameFromUserAgent("Mozilla/5.0 (X11; Linux)"); got != "web - Mozilla/5.0" {
		t.Fatalf("got %q", got)
	}
	if got := deviceNameFromUserAgent("  "); got != "web - unknown" {
		t.Fatalf("got %q", got)
	}
}
