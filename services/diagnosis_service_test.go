package services

import (
	"context"
	"errors"
	"io"
	"strings"
	"testing"

	"malaria-http-service/models"
)

type fakePreprocess struct {
	tensor *models.ImageTensor
	err    error
}

func (f *fakePreprocess) Preprocess(src io.Reader, filename string) (*models.ImageTensor, error) {
	return f.tensor, f.err
}

type fakeClassifier struct {
	verdict *models.Verdict
	err     error
}

func (f *fakeClassifier) Classify(tensor *models.ImageTensor) (*models.Verdict, error) {
	return f.verdict, f.err
}

func (f *fakeClassifier) InputDim() int { return 3 }

type fakePatients struct {
	InterfacePatientService

	created  []*models.Patient
	patient  *models.Patient
	row      *models.PatientRecoRow
	fetchErr error
}

func (f *fakePatients) CreatePatient(ctx context.Context, p *models.Patient) error {
	f.created = append(f.created, p)
	return nil
}

func (f *fakePatients) GetPatientByID(ctx context.Context, id uint) (*models.Patient, error) {
	return f.patient, f.fetchErr
}

func (f *fakePatients) GetPatientJoinedByID(ctx context.Context, id uint) (*models.PatientRecoRow, error) {
	return f.row, f.fetchErr
}

type fakeReports struct {
	path          string
	err           error
	renderedJoins int
}

func (f *fakeReports) RenderPatientReport(p *models.Patient) (string, error) {
	return f.path, f.err
}

func (f *fakeReports) RenderJoinedReport(row *models.PatientRecoRow) (string, error) {
	f.renderedJoins++
	return f.path, f.err
}

type fakePrinter struct {
	err        error
	dispatched []string
}

func (f *fakePrinter) Dispatch(ctx context.Context, path string) error {
	f.dispatched = append(f.dispatched, path)
	return f.err
}

type fakeEvents struct {
	diagnoses int
	printed   int
}

func (f *fakeEvents) Connect() error { return nil }
func (f *fakeEvents) Disconnect()    {}
func (f *fakeEvents) PublishDiagnosis(insurance string, verdict *models.Verdict) {
	f.diagnoses++
}
func (f *fakeEvents) PublishReportPrinted(patientID uint, printed bool) {
	f.printed++
}

func newTestPipeline() (*DiagnosisService, *fakePatients, *fakePrinter, *fakeEvents) {
	patients := &fakePatients{
		patient: &models.Patient{PatientID: 7, FName: "Ann", Result: models.ResultInfected},
	}
	printer := &fakePrinter{}
	events := &fakeEvents{}
	svc := NewDiagnosisService(
		&fakePreprocess{tensor: &models.ImageTensor{Data: []float32{0.1, 0.2, 0.3}}},
		&fakeClassifier{verdict: &models.Verdict{Label: models.ResultInfected, Score: 0.9}},
		patients,
		&fakeReports{path: "reports/patient_7.pdf"},
		printer,
		events,
	)
	return svc, patients, printer, events
}

func TestClassifyAndCreate(t *testing.T) {
	t.Run("persists verdict on new record", func(t *testing.T) {
		svc, patients, _, events := newTestPipeline()

		patient := &models.Patient{FName: "Ann", Insurance: "INS1"}
		verdict, err := svc.ClassifyAndCreate(context.Background(), strings.NewReader("img"), "smear.png", patient)
		if err != nil {
			t.Fatalf("ClassifyAndCreate: %v", err)
		}
		if verdict.Label != models.ResultInfected {
			t.Errorf("Label = %q, want %q", verdict.Label, models.ResultInfected)
		}
		if patient.Result != models.ResultInfected {
			t.Errorf("patient.Result = %q, want verdict label", patient.Result)
		}
		if len(patients.created) != 1 {
			t.Errorf("created %d records, want 1", len(patients.created))
		}
		if events.diagnoses != 1 {
			t.Errorf("published %d diagnosis events, want 1", events.diagnoses)
		}
	})

	t.Run("no record on preprocess failure", func(t *testing.T) {
		svc, patients, _, _ := newTestPipeline()
		svc.Preprocess = &fakePreprocess{err: ErrUnsupportedFormat}

		_, err := svc.ClassifyAndCreate(context.Background(), strings.NewReader("img"), "smear.gif", &models.Patient{})
		if !errors.Is(err, ErrUnsupportedFormat) {
			t.Fatalf("err = %v, want ErrUnsupportedFormat", err)
		}
		if len(patients.created) != 0 {
			t.Errorf("created %d records, want 0", len(patients.created))
		}
	})

	t.Run("no record on inference failure", func(t *testing.T) {
		svc, patients, _, _ := newTestPipeline()
		svc.Classifier = &fakeClassifier{err: ErrInferenceFailure}

		_, err := svc.ClassifyAndCreate(context.Background(), strings.NewReader("img"), "smear.png", &models.Patient{})
		if !errors.Is(err, ErrInferenceFailure) {
			t.Fatalf("err = %v, want ErrInferenceFailure", err)
		}
		if len(patients.created) != 0 {
			t.Errorf("created %d records, want 0", len(patients.created))
		}
	})
}

func TestClassifyOnly(t *testing.T) {
	svc, patients, _, _ := newTestPipeline()

	verdict, err := svc.ClassifyOnly(context.Background(), strings.NewReader("img"), "smear.png")
	if err != nil {
		t.Fatalf("ClassifyOnly: %v", err)
	}
	if verdict.Score != 0.9 {
		t.Errorf("Score = %f, want 0.9", verdict.Score)
	}
	if len(patients.created) != 0 {
		t.Errorf("created %d records, want 0 for classify-only", len(patients.created))
	}
}

func TestReportAndPrint(t *testing.T) {
	t.Run("dispatches generated document", func(t *testing.T) {
		svc, _, printer, events := newTestPipeline()

		outcome, err := svc.ReportAndPrint(context.Background(), 7, false)
		if err != nil {
			t.Fatalf("ReportAndPrint: %v", err)
		}
		if !outcome.Printed {
			t.Error("Printed = false, want true")
		}
		if outcome.DocumentPath != "reports/patient_7.pdf" {
			t.Errorf("DocumentPath = %q", outcome.DocumentPath)
		}
		if len(printer.dispatched) != 1 {
			t.Errorf("dispatched %d documents, want 1", len(printer.dispatched))
		}
		if events.printed != 1 {
			t.Errorf("published %d print events, want 1", events.printed)
		}
	})

	t.Run("print failure degrades to warning", func(t *testing.T) {
		svc, _, printer, _ := newTestPipeline()
		printer.err = ErrPrintUnavailable

		outcome, err := svc.ReportAndPrint(context.Background(), 7, false)
		if err != nil {
			t.Fatalf("ReportAndPrint: %v", err)
		}
		if outcome.Printed {
			t.Error("Printed = true, want false on dispatch failure")
		}
		if outcome.PrintWarning == "" {
			t.Error("PrintWarning empty, want degradation message")
		}
		if outcome.DocumentPath == "" {
			t.Error("DocumentPath empty, report should still be generated")
		}
	})

	t.Run("joined variant uses joined row", func(t *testing.T) {
		svc, patients, _, _ := newTestPipeline()
		id := uint(7)
		patients.row = &models.PatientRecoRow{PatientID: &id, Insurance: "INS1", Reco: "ACT therapy"}
		reports := &fakeReports{path: "reports/patient_7.pdf"}
		svc.Reports = reports

		if _, err := svc.ReportAndPrint(context.Background(), 7, true); err != nil {
			t.Fatalf("ReportAndPrint joined: %v", err)
		}
		if reports.renderedJoins != 1 {
			t.Errorf("renderedJoins = %d, want 1", reports.renderedJoins)
		}
	})

	t.Run("missing record aborts before rendering", func(t *testing.T) {
		svc, patients, printer, _ := newTestPipeline()
		patients.patient = nil
		patients.fetchErr = ErrMissingRecord

		if _, err := svc.ReportAndPrint(context.Background(), 9999, false); !errors.Is(err, ErrMissingRecord) {
			t.Fatalf("err = %v, want ErrMissingRecord", err)
		}
		if len(printer.dispatched) != 0 {
			t.Errorf("dispatched %d documents, want 0", len(printer.dispatched))
		}
	})
}
