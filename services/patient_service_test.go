package services

import (
	"context"
	"errors"
	"testing"

	"malaria-http-service/models"
)

func TestCreatePatient(t *testing.T) {
	db := newTestDB(t)
	svc := NewPatientService(db, newTestConfig())
	ctx := context.Background()

	t.Run("defaults result to pending sentinel", func(t *testing.T) {
		p := models.Patient{FName: "Ann", Insurance: "INS1"}
		if err := svc.CreatePatient(ctx, &p); err != nil {
			t.Fatalf("CreatePatient: %v", err)
		}
		if p.PatientID == 0 {
			t.Error("PatientID not assigned")
		}
		if p.Result != models.ResultPending {
			t.Errorf("Result = %q, want %q", p.Result, models.ResultPending)
		}
	})

	t.Run("keeps explicit result", func(t *testing.T) {
		p := models.Patient{FName: "Ben", Insurance: "INS2", Result: models.ResultInfected}
		if err := svc.CreatePatient(ctx, &p); err != nil {
			t.Fatalf("CreatePatient: %v", err)
		}
		got, err := svc.GetPatientByID(ctx, p.PatientID)
		if err != nil {
			t.Fatalf("GetPatientByID: %v", err)
		}
		if got.Result != models.ResultInfected {
			t.Errorf("Result = %q, want %q", got.Result, models.ResultInfected)
		}
	})
}

func TestGetPatientByID(t *testing.T) {
	db := newTestDB(t)
	svc := NewPatientService(db, newTestConfig())

	_, err := svc.GetPatientByID(context.Background(), 9999)
	if !errors.Is(err, ErrMissingRecord) {
		t.Errorf("err = %v, want ErrMissingRecord", err)
	}
}

func TestUpdateResultByInsurance(t *testing.T) {
	db := newTestDB(t)
	svc := NewPatientService(db, newTestConfig())
	ctx := context.Background()

	for _, p := range []models.Patient{
		{FName: "Ann", Insurance: "INS1"},
		{FName: "Ben", Insurance: "INS1"},
		{FName: "Cleo", Insurance: "INS2"},
	} {
		p := p
		if err := svc.CreatePatient(ctx, &p); err != nil {
			t.Fatal(err)
		}
	}

	t.Run("updates every matching record", func(t *testing.T) {
		affected, err := svc.UpdateResultByInsurance(ctx, "INS1", models.ResultUninfected)
		if err != nil {
			t.Fatalf("UpdateResultByInsurance: %v", err)
		}
		if affected != 2 {
			t.Errorf("affected = %d, want 2", affected)
		}

		var untouched models.Patient
		if err := db.Where("insurance = ?", "INS2").First(&untouched).Error; err != nil {
			t.Fatal(err)
		}
		if untouched.Result != models.ResultPending {
			t.Errorf("INS2 result = %q, want untouched pending", untouched.Result)
		}
	})

	t.Run("idempotent", func(t *testing.T) {
		if _, err := svc.UpdateResultByInsurance(ctx, "INS1", models.ResultUninfected); err != nil {
			t.Fatalf("repeated update: %v", err)
		}
		var count int64
		db.Model(&models.Patient{}).Where("insurance = ? AND result = ?", "INS1", models.ResultUninfected).Count(&count)
		if count != 2 {
			t.Errorf("count = %d, want 2", count)
		}
	})

	t.Run("zero matches is not an error", func(t *testing.T) {
		affected, err := svc.UpdateResultByInsurance(ctx, "NOPE", models.ResultInfected)
		if err != nil {
			t.Fatalf("UpdateResultByInsurance: %v", err)
		}
		if affected != 0 {
			t.Errorf("affected = %d, want 0", affected)
		}
	})

	t.Run("rejects unknown result", func(t *testing.T) {
		if _, err := svc.UpdateResultByInsurance(ctx, "INS1", "maybe sick"); err == nil {
			t.Fatal("expected error for unknown result value")
		}
	})
}

func TestDeletePatient(t *testing.T) {
	db := newTestDB(t)
	svc := NewPatientService(db, newTestConfig())
	ctx := context.Background()

	p := models.Patient{FName: "Ann", Insurance: "INS1"}
	if err := svc.CreatePatient(ctx, &p); err != nil {
		t.Fatal(err)
	}

	t.Run("deletes existing record", func(t *testing.T) {
		if err := svc.DeletePatient(ctx, p.PatientID); err != nil {
			t.Fatalf("DeletePatient: %v", err)
		}
		if _, err := svc.GetPatientByID(ctx, p.PatientID); !errors.Is(err, ErrMissingRecord) {
			t.Errorf("err = %v, want ErrMissingRecord", err)
		}
	})

	t.Run("missing id succeeds silently", func(t *testing.T) {
		if err := svc.DeletePatient(ctx, 424242); err != nil {
			t.Errorf("DeletePatient(missing) = %v, want nil", err)
		}
	})
}

func TestListPatientsJoinedWithReco(t *testing.T) {
	db := newTestDB(t)
	svc := NewPatientService(db, newTestConfig())
	ctx := context.Background()

	matched := models.Patient{FName: "Ann", Insurance: "INS1"}
	if err := svc.CreatePatient(ctx, &matched); err != nil {
		t.Fatal(err)
	}
	for _, r := range []models.Recommendation{
		{Insurance: "INS1", Reco: "ACT therapy"},
		{Insurance: "INS9", Reco: "Repeat the smear in two weeks"},
	} {
		r := r
		if err := db.Create(&r).Error; err != nil {
			t.Fatal(err)
		}
	}

	rows, err := svc.ListPatientsJoinedWithReco(ctx)
	if err != nil {
		t.Fatalf("ListPatientsJoinedWithReco: %v", err)
	}
	if len(rows) != 2 {
		t.Fatalf("len(rows) = %d, want 2", len(rows))
	}

	byInsurance := map[string]models.PatientRecoRow{}
	for _, row := range rows {
		byInsurance[row.Insurance] = row
	}

	t.Run("matched recommendation carries case fields", func(t *testing.T) {
		row, ok := byInsurance["INS1"]
		if !ok {
			t.Fatal("INS1 row missing")
		}
		if row.PatientID == nil || *row.PatientID != matched.PatientID {
			t.Errorf("PatientID = %v, want %d", row.PatientID, matched.PatientID)
		}
		if row.Reco != "ACT therapy" {
			t.Errorf("Reco = %q", row.Reco)
		}
	})

	t.Run("unmatched recommendation keeps null case fields", func(t *testing.T) {
		row, ok := byInsurance["INS9"]
		if !ok {
			t.Fatal("INS9 row missing")
		}
		if row.PatientID != nil {
			t.Errorf("PatientID = %v, want nil", row.PatientID)
		}
	})
}

func TestGetPatientJoinedByID(t *testing.T) {
	db := newTestDB(t)
	svc := NewPatientService(db, newTestConfig())
	ctx := context.Background()

	p := models.Patient{FName: "Ann", Insurance: "INS1"}
	if err := svc.CreatePatient(ctx, &p); err != nil {
		t.Fatal(err)
	}
	if err := db.Create(&models.Recommendation{Insurance: "INS1", Reco: "ACT therapy"}).Error; err != nil {
		t.Fatal(err)
	}

	t.Run("returns joined row", func(t *testing.T) {
		row, err := svc.GetPatientJoinedByID(ctx, p.PatientID)
		if err != nil {
			t.Fatalf("GetPatientJoinedByID: %v", err)
		}
		if row.Reco != "ACT therapy" {
			t.Errorf("Reco = %q", row.Reco)
		}
	})

	t.Run("missing id", func(t *testing.T) {
		if _, err := svc.GetPatientJoinedByID(ctx, 9999); !errors.Is(err, ErrMissingRecord) {
			t.Errorf("err = %v, want ErrMissingRecord", err)
		}
	})
}
