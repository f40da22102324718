package models

import (
	"fmt"
	"strings"
)

// normalizeKey lowercases and strips separators so "In Progress", "InProgress"
// and "in_progress" compare equal.
func normalizeKey(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	return strings.NewReplacer(" ", "", "_", "", "-", "").Replace(s)
}

type PickupStatus string

const (
	PickupPending    PickupStatus = "Pending"
	PickupInProgress PickupStatus = "In Progress"
	PickupBagged     PickupStatus = "Bagged"
	PickupFailed     PickupStatus = "Failed"
	PickupCompleted  PickupStatus = "Completed"
)

var pickupStatuses = []PickupStatus{PickupPending, PickupInProgress, PickupBagged, PickupFailed, PickupCompleted}

// ParsePickupStatus accepts the canonical values case-insensitively. An empty
// value is read as Pending, which is how freshly imported returns are stored.
func ParsePickupStatus(s string) (PickupStatus, error) {
	if strings.TrimSpace(s) == "" {
		return PickupPending, nil
	}
	key := normalizeKey(s)
	for _, v := range pickupStatuses {
		if normalizeKey(string(v)) == key {
			return v, nil
		}
	}
	return "", fmt.Errorf("unknown pickup status %q", s)
}

// Normalized maps legacy spellings onto the canonical value. Unknown values
// are returned unchanged.
func (s PickupStatus) Normalized() PickupStatus {
	if v, err := ParsePickupStatus(string(s)); err == nil {
		return v
	}
	return s
}

type BagStatus string

const (
	BagOpen        BagStatus = "Open"
	BagSealed      BagStatus = "Sealed"
	BagInWarehouse BagStatus = "InWarehouse"
	BagFinished    BagStatus = "Finished"
)

var bagOrder = map[BagStatus]int{
	BagOpen:        0,
	BagSealed:      1,
	BagInWarehouse: 2,
	BagFinished:    3,
}

func ParseBagStatus(s string) (BagStatus, error) {
	key := normalizeKey(s)
	for v := range bagOrder {
		if normalizeKey(string(v)) == key {
			return v, nil
		}
	}
	return "", fmt.Errorf("unknown bag status %q", s)
}

// CanAdvanceTo reports whether next is the immediate successor of s.
// Bags never move backwards and never skip a state.
func (s BagStatus) CanAdvanceTo(next BagStatus) bool {
	cur, ok := bagOrder[s]
	if !ok {
		return false
	}
	n, ok := bagOrder[next]
	return ok && n == cur+1
}

// Reached reports whether s is at or past target in the lifecycle.
func (s BagStatus) Reached(target BagStatus) bool {
	return bagOrder[s] >= bagOrder[target]
}

type SealIntegrity string

const (
	SealUnknown SealIntegrity = "Unknown"
	SealIntact  SealIntegrity = "Intact"
	SealBroken  SealIntegrity = "Broken"
)

func ParseSealIntegrity(s string) (SealIntegrity, error) {
	switch normalizeKey(s) {
	case "intact":
		return SealIntact, nil
	case "broken":
		return SealBroken, nil
	}
	return "", fmt.Errorf("seal integrity must be Intact or Broken, got %q", s)
}

type Expected string

const (
	ExpectedYes     Expected = "Yes"
	ExpectedNo      Expected = "No"
	ExpectedMissing Expected = "Missing"
)

func ParseExpected(s string) (Expected, error) {
	switch normalizeKey(s) {
	case "yes":
		return ExpectedYes, nil
	case "no":
		return ExpectedNo, nil
	case "missing":
		return ExpectedMissing, nil
	}
	return "", fmt.Errorf("expected must be Yes, No or Missing, got %q", s)
}

// ItemStatus returns the item status implied by a scan result.
func (e Expected) ItemStatus() ItemStatus {
	if e == ExpectedYes {
		return ItemProceed
	}
	return ItemReport
}

type ItemStatus string

const (
	ItemReport  ItemStatus = "Report"
	ItemProceed ItemStatus = "Proceed"
)

func ParseItemStatus(s string) (ItemStatus, error) {
	switch normalizeKey(s) {
	case "report":
		return ItemReport, nil
	case "proceed":
		return ItemProceed, nil
	}
	return "", fmt.Errorf("status must be Report or Proceed, got %q", s)
}

type QCTaskStatus string

const (
	QCTaskPending   QCTaskStatus = "Pending"
	QCTaskCompleted QCTaskStatus = "Completed"
)

type FinalDecision string

const (
	DecisionApproved    FinalDecision = "Approved"
	DecisionRejected    FinalDecision = "Rejected"
	DecisionNeedsRework FinalDecision = "Needs Rework"
)

func ParseFinalDecision(s string) (FinalDecision, error) {
	switch normalizeKey(s) {
	case "approved":
		return DecisionApproved, nil
	case "rejected":
		return DecisionRejected, nil
	case "needsrework":
		return DecisionNeedsRework, nil
	}
	return "", fmt.Errorf("final decision must be Approved, Rejected or Needs Rework, got %q", s)
}

type Role string

const (
	RolePickupAgent    Role = "PickupAgent"
	RoleWarehouseStaff Role = "WarehouseStaff"
	RoleQCStaff        Role = "QCStaff"
	RoleAdmin          Role = "Admin"
)

func ParseRole(s string) (Role, error) {
	key := normalizeKey(s)
	for _, v := range []Role{RolePickupAgent, RoleWarehouseStaff, RoleQCStaff, RoleAdmin} {
		if normalizeKey(string(v)) == key {
			return v, nil
		}
	}
	return "", fmt.Errorf("unknown role %q", s)
}

// IDPrefix is the prefix used for public user ids (PA0001, WA0002, ...).
func (r Role) IDPrefix() string {
	switch r {
	case RolePickupAgent:
		return "PA"
	case RoleWarehouseStaff:
		return "WA"
	case RoleQCStaff:
		return "QCA"
	case RoleAdmin:
		return "AA"
	}
	return "US"
}

// NotificationRole is the audience of a notification. Notifications target
// roles, not individual users.
type NotificationRole string

const (
	NotifyWarehouse   NotificationRole = "Warehouse"
	NotifyQC          NotificationRole = "QC"
	NotifyAdmin       NotificationRole = "Admin"
	NotifyPickupAgent NotificationRole = "PickupAgent"
)

func ParseNotificationRole(s string) (NotificationRole, error) {
	key := normalizeKey(s)
	for _, v := range []NotificationRole{NotifyWarehouse, NotifyQC, NotifyAdmin, NotifyPickupAgent} {
		if normalizeKey(string(v)) == key {
			return v, nil
		}
	}
	return "", fmt.Errorf("unknown notification role %q", s)
}

type UserStatus string

const (
	UserPending  UserStatus = "Pending"
	UserActive   UserStatus = "Active"
	UserInactive UserStatus = "Inactive"
	UserRejected UserStatus = "Rejected"
)

// ParseUserStatus treats "Approved" as Active.
func ParseUserStatus(s string) (UserStatus, error) {
	switch normalizeKey(s) {
	case "pending":
		return UserPending, nil
	case "active", "approved":
		return UserActive, nil
	case "inactive":
		return UserInactive, nil
	case "rejected":
		return UserRejected, nil
	}
	return "", fmt.Errorf("unknown user status %q", s)
}
