package models

import "testing"

func TestCanUseAPI(t *testing.T) {
	tests := []struct {
		name       string
		approved   bool
		userActive bool
		want       bool
	}{
		{"approved and active", true, true, true},
		{"approved but deactivated", true, false, false},
		{"pending approval", false, true, false},
		{"pending and deactivated", false, false, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v := Vendor{IsApproved: tt.approved}
			u := User{IsActive: tt.userActive}
			if got := v.CanUseAPI(&u); got != tt.want {
				t.Errorf("CanUseAPI() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestCanUseAPINilOwner(t *testing.T) {
	v := Vendor{IsApproved: true}
	if v.CanUseAPI(nil) {
		t.Error("CanUseAPI(nil) should be false")
	}
}

func TestSecurityPIN(t *testing.T) {
	var v Vendor

	if v.HasSecurityPIN() {
		t.Fatal("new vendor should have no PIN")
	}
	if v.CheckSecurityPIN("1234") {
		t.Error("CheckSecurityPIN should fail when no PIN is set")
	}

	if err := v.SetSecurityPIN("1234"); err != nil {
		t.Fatalf("SetSecurityPIN() error = %v", err)
	}
	if !v.HasSecurityPIN() {
		t.Error("HasSecurityPIN should be true after set")
	}
	if !v.CheckSecurityPIN("1234") {
		t.Error("correct PIN rejected")
	}
	if v.CheckSecurityPIN("4321") {
		t.Error("wrong PIN accepted")
	}

	if err := v.SetSecurityPIN(""); err != nil {
		t.Fatalf("clearing PIN: %v", err)
	}
	if v.HasSecurityPIN() {
		t.Error("PIN should be cleared by empty string")
	}
}

func TestPasswordHashing(t *testing.T) {
	var u User
	if err := u.SetPassword("secret-password"); err != nil {
		t.Fatalf("SetPassword() error = %v", err)
	}
	if u.PasswordHash == "secret-password" {
		t.Fatal("password stored in plaintext")
	}
	if !u.CheckPassword("secret-password") {
		t.Error("correct password rejected")
	}
	if u.CheckPassword("wrong") {
		t.Error("wrong password accepted")
	}
}

func TestValidUnitType(t *testing.T) {
	for _, ut := range UnitTypes() {
		if !ValidUnitType(UnitType(ut["value"])) {
			t.Errorf("listed unit %q not valid", ut["value"])
		}
	}
	if ValidUnitType("bucket") {
		t.Error("unknown unit accepted")
	}
}

func TestValidPaymentMode(t *testing.T) {
	for _, m := range []PaymentMode{PaymentCash, PaymentUPI, PaymentCard, PaymentCredit, PaymentOther} {
		if !ValidPaymentMode(m) {
			t.Errorf("mode %q should be valid", m)
		}
	}
	if ValidPaymentMode("cheque") {
		t.Error("unknown payment mode accepted")
	}
}
