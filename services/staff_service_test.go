package services

import (
	"context"
	"testing"

	"malaria-http-service/models"
)

func TestCreateDoctor(t *testing.T) {
	db := newTestDB(t)
	svc := NewStaffService(db, newTestConfig())
	ctx := context.Background()

	t.Run("creates paired login account", func(t *testing.T) {
		doctor := models.Doctor{FName: "Grace", LName: "Otieno"}
		if err := svc.CreateDoctor(ctx, &doctor); err != nil {
			t.Fatalf("CreateDoctor: %v", err)
		}

		var user models.User
		if err := db.Where("username = ?", "Grace").First(&user).Error; err != nil {
			t.Fatalf("paired account missing: %v", err)
		}
		if user.UserType != models.RoleDoctor {
			t.Errorf("UserType = %q, want %q", user.UserType, models.RoleDoctor)
		}
		if !models.CheckPasswordHash("abc@123", user.Password) {
			t.Error("stored password does not match role default")
		}
	})

	t.Run("duplicate username rolls back", func(t *testing.T) {
		// 大小写不同仍视为重复
		doctor := models.Doctor{FName: "grace"}
		if err := svc.CreateDoctor(ctx, &doctor); err == nil {
			t.Fatal("expected error for duplicate username")
		}

		var doctors int64
		db.Model(&models.Doctor{}).Count(&doctors)
		if doctors != 1 {
			t.Errorf("doctors = %d, want 1 after rollback", doctors)
		}
		var users int64
		db.Model(&models.User{}).Count(&users)
		if users != 1 {
			t.Errorf("users = %d, want 1 after rollback", users)
		}
	})
}

func TestCreateLabAndOfficeStaff(t *testing.T) {
	db := newTestDB(t)
	svc := NewStaffService(db, newTestConfig())
	ctx := context.Background()

	lab := models.LabStaff{FName: "Kamau"}
	if err := svc.CreateLabStaff(ctx, &lab); err != nil {
		t.Fatalf("CreateLabStaff: %v", err)
	}
	office := models.OfficeStaff{FName: "Wanjiru"}
	if err := svc.CreateOfficeStaff(ctx, &office); err != nil {
		t.Fatalf("CreateOfficeStaff: %v", err)
	}

	var labUser, officeUser models.User
	if err := db.Where("username = ?", "Kamau").First(&labUser).Error; err != nil {
		t.Fatalf("lab account missing: %v", err)
	}
	if labUser.UserType != models.RoleLab {
		t.Errorf("lab UserType = %q, want %q", labUser.UserType, models.RoleLab)
	}
	if err := db.Where("username = ?", "Wanjiru").First(&officeUser).Error; err != nil {
		t.Fatalf("office account missing: %v", err)
	}
	if !models.CheckPasswordHash("office@123", officeUser.Password) {
		t.Error("office password does not match role default")
	}
}

func TestStaffCountsAndDelete(t *testing.T) {
	db := newTestDB(t)
	svc := NewStaffService(db, newTestConfig())
	ctx := context.Background()

	doctor := models.Doctor{FName: "Grace"}
	if err := svc.CreateDoctor(ctx, &doctor); err != nil {
		t.Fatal(err)
	}

	count, err := svc.CountDoctors()
	if err != nil {
		t.Fatalf("CountDoctors: %v", err)
	}
	if count != 1 {
		t.Errorf("CountDoctors = %d, want 1", count)
	}

	if err := svc.DeleteDoctor(ctx, doctor.DoctorID); err != nil {
		t.Fatalf("DeleteDoctor: %v", err)
	}
	count, err = svc.CountDoctors()
	if err != nil {
		t.Fatal(err)
	}
	if count != 0 {
		t.Errorf("CountDoctors = %d, want 0 after delete", count)
	}
}
