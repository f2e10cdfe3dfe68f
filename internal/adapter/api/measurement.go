package api

import (
	"net/http"
	"time"

	"github.com/burenotti/go_training_backend/internal/domain/account"
	"github.com/burenotti/go_training_backend/internal/domain/measurement"
	"github.com/labstack/echo/v4"
	"github.com/samber/lo"
)

func (s *Server) MountMeasurements() {
	loginRequired := LoginRequired(s.verifier, s.logger)

	s.handler.POST("/students/:student_id/measurements", s.RecordMeasurement, loginRequired)
	s.handler.GET("/students/:student_id/measurements", s.ListMeasurements, loginRequired)
	s.handler.DELETE("/measurements/:measurement_id", s.DeleteMeasurement, loginRequired)
}

type MeasurementResponse struct {
	MeasurementID int64     `json:"measurement_id"`
	StudentID     int64     `json:"student_id"`
	TrainerID     int64     `json:"trainer_id"`
	RecordedAt    time.Time `json:"recorded_at"`
	Weight        *float64  `json:"weight,omitempty"`
	Height        *float64  `json:"height,omitempty"`
	Waist         *float64  `json:"waist,omitempty"`
	Hip           *float64  `json:"hip,omitempty"`
}

func measurementResponse(m *measurement.Measurement) MeasurementResponse {
	return MeasurementResponse{
		MeasurementID: int64(m.MeasurementID),
		StudentID:     int64(m.StudentID),
		TrainerID:     int64(m.TrainerID),
		RecordedAt:    m.RecordedAt,
		Weight:        m.Weight,
		Height:        m.Height,
		Waist:         m.Waist,
		Hip:           m.Hip,
	}
}

type RecordMeasurementRequest struct {
	StudentID int64    `param:"student_id" validate:"required,gt=0"`
	Weight    *float64 `json:"weight,omitempty" validate:"omitempty,gt=0"`
	Height    *float64 `json:"height,omitempty" validate:"omitempty,gt=0"`
	Waist     *float64 `json:"waist,omitempty" validate:"omitempty,gt=0"`
	Hip       *float64 `json:"hip,omitempty" validate:"omitempty,gt=0"`
}

func (s *Server) RecordMeasurement(c echo.Context) error {
	var req RecordMeasurementRequest
	if err := s.bind(c, &req); err != nil {
		return JsonError(c, http.StatusBadRequest, err)
	}

	me, err := s.trainerAccount(c)
	if err != nil {
		return s.fail(c, err)
	}

	m, err := s.measurementService.Record(
		c.Request().Context(),
		s.units.Measurement,
		measurement.AccountID(req.StudentID),
		measurement.AccountID(me.AccountID),
		req.Weight, req.Height, req.Waist, req.Hip,
	)
	if err != nil {
		return s.fail(c, err)
	}
	return c.JSON(http.StatusCreated, measurementResponse(m))
}

type ListMeasurementsRequest struct {
	StudentID int64 `param:"student_id" validate:"required,gt=0"`
}

// ListMeasurements is open to trainers and to the student the measurements
// belong to.
func (s *Server) ListMeasurements(c echo.Context) error {
	var req ListMeasurementsRequest
	if err := s.bind(c, &req); err != nil {
		return JsonError(c, http.StatusBadRequest, err)
	}

	me, err := s.registeredAccount(c)
	if err != nil {
		return s.fail(c, err)
	}
	if me.Role != account.RoleTrainer && int64(me.AccountID) != req.StudentID {
		return s.fail(c, errNotYours)
	}

	list, err := s.measurementService.ListByStudent(c.Request().Context(), s.units.Measurement, measurement.AccountID(req.StudentID))
	if err != nil {
		return s.fail(c, err)
	}
	return c.JSON(http.StatusOK, lo.Map(list, func(m *measurement.Measurement, _ int) MeasurementResponse {
		return measurementResponse(m)
	}))
}

type DeleteMeasurementRequest struct {
	MeasurementID int64 `param:"measurement_id" validate:"required,gt=0"`
}

func (s *Server) DeleteMeasurement(c echo.Context) error {
	var req DeleteMeasurementRequest
	if err := s.bind(c, &req); err != nil {
		return JsonError(c, http.StatusBadRequest, err)
	}
	if _, err := s.trainerAccount(c); err != nil {
		return s.fail(c, err)
	}

	if err := s.measurementService.Delete(c.Request().Context(), s.units.Measurement, measurement.ID(req.MeasurementID)); err != nil {
		return s.fail(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}
