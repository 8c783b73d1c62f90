package verification

import (
	"reflect"
	"testing"
)

func TestFromTags(t *testing.T) {
	cases := []struct {
		tags []string
		want State
	}{
		{nil, Unregistered},
		{[]string{"wholesale"}, Unregistered},
		{[]string{"pending-verification"}, Pending},
		{[]string{"email-verified"}, EmailVerified},
		{[]string{"registration-complete"}, Complete},
		// A partially failed write can leave two flow tags; the most
		// advanced one wins.
		{[]string{"pending-verification", "email-verified"}, EmailVerified},
		{[]string{"email-verified", "registration-complete"}, Complete},
	}
	for _, tc := range cases {
		if got := FromTags(tc.tags); got != tc.want {
			t.Fatalf("FromTags(%v) = %v, want %v", tc.tags, got, tc.want)
		}
	}
}

func TestTransitionLinearOnly(t *testing.T) {
	valid := [][2]State{
		{Unregistered, Pending},
		{Pending, EmailVerified},
		{EmailVerified, Complete},
	}
	for _, v := range valid {
		if err := Transition(v[0], v[1]); err != nil {
			t.Fatalf("Transition(%v, %v): %v", v[0], v[1], err)
		}
	}

	invalid := [][2]State{
		{Unregistered, EmailVerified},
		{Pending, Complete},
		{Complete, Pending},
		{EmailVerified, Pending},
		{Pending, Pending},
	}
	for _, v := range invalid {
		if err := Transition(v[0], v[1]); err == nil {
			t.Fatalf("Transition(%v, %v): expected error", v[0], v[1])
		}
	}
}

func TestApplyTransitionPreservesUnrelatedTags(t *testing.T) {
	got, err := ApplyTransition([]string{"wholesale", "pending-verification"}, Pending, EmailVerified)
	if err != nil {
		t.Fatalf("apply: %v", err)
	}
	want := []string{"wholesale", "email-verified"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("ApplyTransition = %v, want %v", got, want)
	}
}

func TestApplyTransitionRejectsSkips(t *testing.T) {
	if _, err := ApplyTransition([]string{"pending-verification"}, Pending, Complete); err == nil {
		t.Fatal("expected error for skipped state")
	}
}
