package echoapi

import (
	"encoding/csv"
	"io"
	"net/http"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/trezcool/mahudhurio/core"
	"github.com/trezcool/mahudhurio/core/school"
)

type schoolApi struct {
	svc      *school.Service
	validate *validator.Validate
}

func registerSchoolAPI(g *echo.Group, jwt echo.MiddlewareFunc, svc *school.Service, validate *validator.Validate) {
	api := schoolApi{svc: svc, validate: validate}

	sg := g.Group("/school", jwt)

	sg.POST("/departments", api.createDepartment, adminMiddleware())
	sg.GET("/departments", api.queryDepartments, adminOrTeacherMiddleware())
	sg.GET("/departments/:id/batches", api.queryBatches, adminOrTeacherMiddleware())
	sg.POST("/batches", api.createBatch, adminMiddleware())
	sg.GET("/batches/:id/years", api.queryYears, adminOrTeacherMiddleware())
	sg.POST("/years", api.createYear, adminMiddleware())
	sg.GET("/years/:id/sections", api.querySections, adminOrTeacherMiddleware())
	sg.POST("/sections", api.createSection, adminMiddleware())
	sg.GET("/sections/lookup", api.lookupSection, adminOrTeacherMiddleware())
	sg.GET("/sections/:id/students", api.listStudents, adminOrTeacherMiddleware())
	sg.POST("/sections/:id/students/upload", api.uploadStudents, adminMiddleware())
	sg.POST("/students", api.createStudent, adminMiddleware())
	sg.PUT("/students/:id/section", api.reassignStudent, adminMiddleware())
}

// Handlers

func (api *schoolApi) createDepartment(ctx echo.Context) error {
	var data school.NewDepartment
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewDepartment")
	}
	if err := data.Validate(api.validate); err != nil {
		return err
	}
	dept, err := api.svc.CreateDepartment(ctx.Request().Context(), data)
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusCreated, dept)
}

func (api *schoolApi) queryDepartments(ctx echo.Context) error {
	depts, err := api.svc.QueryDepartments(ctx.Request().Context())
	if err != nil {
		return errors.Wrap(err, "querying departments")
	}
	if depts == nil {
		depts = []school.Department{}
	}
	return ctx.JSON(http.StatusOK, depts)
}

func (api *schoolApi) createBatch(ctx echo.Context) error {
	var data school.NewBatch
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewBatch")
	}
	if err := data.Validate(api.validate); err != nil {
		return err
	}
	batch, err := api.svc.CreateBatch(ctx.Request().Context(), data)
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusCreated, batch)
}

func (api *schoolApi) queryBatches(ctx echo.Context) error {
	batches, err := api.svc.QueryBatches(ctx.Request().Context(), ctx.Param("id"))
	if err != nil {
		return errors.Wrap(err, "querying batches")
	}
	if batches == nil {
		batches = []school.Batch{}
	}
	return ctx.JSON(http.StatusOK, batches)
}

func (api *schoolApi) createYear(ctx echo.Context) error {
	var data school.NewYear
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewYear")
	}
	if err := data.Validate(api.validate); err != nil {
		return err
	}
	year, err := api.svc.CreateYear(ctx.Request().Context(), data)
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusCreated, year)
}

func (api *schoolApi) queryYears(ctx echo.Context) error {
	years, err := api.svc.QueryYears(ctx.Request().Context(), ctx.Param("id"))
	if err != nil {
		return errors.Wrap(err, "querying years")
	}
	if years == nil {
		years = []school.Year{}
	}
	return ctx.JSON(http.StatusOK, years)
}

func (api *schoolApi) createSection(ctx echo.Context) error {
	var data school.NewSection
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewSection")
	}
	if err := data.Validate(api.validate); err != nil {
		return err
	}
	section, err := api.svc.CreateSection(ctx.Request().Context(), data)
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusCreated, section)
}

func (api *schoolApi) querySections(ctx echo.Context) error {
	sections, err := api.svc.QuerySections(ctx.Request().Context(), ctx.Param("id"))
	if err != nil {
		return errors.Wrap(err, "querying sections")
	}
	if sections == nil {
		sections = []school.Section{}
	}
	return ctx.JSON(http.StatusOK, sections)
}

// lookupSection resolves a section by its batch/year/section name chain,
// e.g. /sections/lookup?batch=2026&year=First+Year&section=10-A
func (api *schoolApi) lookupSection(ctx echo.Context) error {
	batch := core.CleanString(ctx.QueryParam("batch"))
	year := core.CleanString(ctx.QueryParam("year"))
	section := core.CleanString(ctx.QueryParam("section"))
	if batch == "" || year == "" || section == "" {
		return core.NewValidationError(errors.New("batch, year and section params are required"))
	}

	sec, err := api.svc.GetSectionByNames(ctx.Request().Context(), batch, year, section)
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, sec)
}

func (api *schoolApi) createStudent(ctx echo.Context) error {
	var data school.NewStudent
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewStudent")
	}
	if err := data.Validate(api.validate); err != nil {
		return err
	}
	student, err := api.svc.CreateStudent(ctx.Request().Context(), data)
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusCreated, student)
}

func (api *schoolApi) listStudents(ctx echo.Context) error {
	students, err := api.svc.ListStudents(ctx.Request().Context(), ctx.Param("id"))
	if err != nil {
		return errors.Wrap(err, "listing students")
	}
	if students == nil {
		students = []school.Student{}
	}
	return ctx.JSON(http.StatusOK, students)
}

// uploadStudents walks a CSV roster (columns: name, optional register number)
// and creates one student per row in the target section.
func (api *schoolApi) uploadStudents(ctx echo.Context) error {
	sectionID := ctx.Param("id")

	fileHdr, err := ctx.FormFile("file")
	if err != nil {
		return core.NewValidationError(errors.New("a CSV file is required"))
	}
	file, err := fileHdr.Open()
	if err != nil {
		return errors.Wrap(err, "opening roster file")
	}
	defer func() { _ = file.Close() }()

	reqCtx := ctx.Request().Context()
	reader := csv.NewReader(file)
	reader.FieldsPerRecord = -1 // register number column is optional

	created := make([]school.Student, 0)
	for line := 1; ; line++ {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return core.NewValidationError(errors.Wrapf(err, "reading roster line %d", line))
		}
		data := school.NewStudent{
			Name:      record[0],
			SectionID: sectionID,
		}
		if len(record) > 1 {
			data.RegisterNo = strings.TrimSpace(record[1])
		}
		if err = data.Validate(api.validate); err != nil {
			return err
		}
		student, err := api.svc.CreateStudent(reqCtx, data)
		if err != nil {
			return err
		}
		created = append(created, student)
	}
	return ctx.JSON(http.StatusCreated, created)
}

func (api *schoolApi) reassignStudent(ctx echo.Context) error {
	var data ReassignStudentRequest
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to ReassignStudentRequest")
	}
	if err := api.validate.Struct(&data); err != nil {
		return err
	}
	student, err := api.svc.ReassignStudent(ctx.Request().Context(), ctx.Param("id"), data.SectionID)
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, student)
}

type ReassignStudentRequest struct {
	SectionID string `json:"section_id" validate:"required,uuid4"`
}
