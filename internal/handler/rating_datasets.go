package handler

import (
	"database/sql"
	"errors"
	"mime"
	"net/http"
	"path/filepath"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/sysu-ecnc-dev/tv-scheduler/backend/internal/domain"
	"github.com/sysu-ecnc-dev/tv-scheduler/backend/internal/ratings"
	"github.com/sysu-ecnc-dev/tv-scheduler/backend/internal/utils"
)

// CreateRatingDataset 支持两种请求体：JSON 格式的数据集，或者 multipart 表单上传的 CSV 文件
func (h *Handler) CreateRatingDataset(w http.ResponseWriter, r *http.Request) {
	var (
		ds  *domain.RatingDataset
		err error
	)

	mediaType, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
	if mediaType == "multipart/form-data" {
		ds, err = h.readRatingDatasetFromCSV(w, r)
	} else {
		ds, err = h.readRatingDatasetFromJSON(w, r)
	}
	if err != nil {
		h.badRequest(w, r, err)
		return
	}

	utils.FillProgramSlugs(ds)
	if err := utils.ValidateRatingDataset(ds); err != nil {
		h.badRequest(w, r, err)
		return
	}

	if err := h.repository.CreateRatingDataset(ds); err != nil {
		var pgErr *pgconn.PgError
		switch {
		case errors.As(err, &pgErr):
			switch pgErr.ConstraintName {
			case "rating_datasets_name_key":
				h.errorResponse(w, r, "数据集名称已存在")
			default:
				h.internalServerError(w, r, err)
			}
		default:
			h.internalServerError(w, r, err)
		}
		return
	}

	h.successResponse(w, r, "创建数据集成功", ds)
}

func (h *Handler) readRatingDatasetFromJSON(w http.ResponseWriter, r *http.Request) (*domain.RatingDataset, error) {
	var req struct {
		Name        string   `json:"name" validate:"required,max=100"`
		Description string   `json:"description" validate:"max=500"`
		SlotLabels  []string `json:"slotLabels" validate:"required,min=1,dive,required"`
		Programs    []struct {
			Name    string    `json:"name" validate:"required"`
			Ratings []float64 `json:"ratings" validate:"dive,min=0"`
		} `json:"programs" validate:"required,min=1,dive"`
	}

	if err := h.readJSON(w, r, &req); err != nil {
		return nil, err
	}
	if err := h.validate.Struct(req); err != nil {
		return nil, err
	}

	ds := &domain.RatingDataset{
		Name:        req.Name,
		Description: req.Description,
		SlotLabels:  req.SlotLabels,
		Programs:    make([]domain.ProgramRating, 0, len(req.Programs)),
	}
	for _, p := range req.Programs {
		ds.Programs = append(ds.Programs, domain.ProgramRating{
			Name:    p.Name,
			Ratings: p.Ratings,
		})
	}

	return ds, nil
}

func (h *Handler) readRatingDatasetFromCSV(w http.ResponseWriter, r *http.Request) (*domain.RatingDataset, error) {
	r.Body = http.MaxBytesReader(w, r.Body, h.config.Server.MaxUploadSize)
	if err := r.ParseMultipartForm(h.config.Server.MaxUploadSize); err != nil {
		var maxBytesErr *http.MaxBytesError
		if errors.As(err, &maxBytesErr) {
			return nil, errors.New("上传的文件过大")
		}
		return nil, err
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		return nil, errors.New("请上传 CSV 文件")
	}
	defer file.Close()

	// 没有指定名称时使用文件名
	name := strings.TrimSpace(r.FormValue("name"))
	if name == "" {
		name = strings.TrimSuffix(filepath.Base(header.Filename), filepath.Ext(header.Filename))
	}

	ds, err := ratings.Read(file, name)
	if err != nil {
		return nil, err
	}
	ds.Description = r.FormValue("description")

	return ds, nil
}

func (h *Handler) GetAllRatingDatasets(w http.ResponseWriter, r *http.Request) {
	datasets, err := h.repository.GetAllRatingDatasets()
	if err != nil {
		h.internalServerError(w, r, err)
		return
	}

	h.successResponse(w, r, "获取所有数据集成功", datasets)
}

func (h *Handler) GetRatingDataset(w http.ResponseWriter, r *http.Request) {
	ds := r.Context().Value(RatingDatasetCtx).(*domain.RatingDataset)

	h.successResponse(w, r, "获取数据集成功", ds)
}

func (h *Handler) UpdateRatingDataset(w http.ResponseWriter, r *http.Request) {
	ds := r.Context().Value(RatingDatasetCtx).(*domain.RatingDataset)

	var req struct {
		Name        *string `json:"name" validate:"omitempty,min=1,max=100"`
		Description *string `json:"description" validate:"omitempty,max=500"`
	}

	if err := h.readJSON(w, r, &req); err != nil {
		h.badRequest(w, r, err)
		return
	}
	if err := h.validate.Struct(req); err != nil {
		h.badRequest(w, r, err)
		return
	}

	if req.Name != nil {
		ds.Name = *req.Name
	}
	if req.Description != nil {
		ds.Description = *req.Description
	}

	if err := h.repository.UpdateRatingDataset(ds); err != nil {
		var pgErr *pgconn.PgError
		switch {
		case errors.As(err, &pgErr):
			switch pgErr.ConstraintName {
			case "rating_datasets_name_key":
				h.errorResponse(w, r, "数据集名称已存在")
			default:
				h.internalServerError(w, r, err)
			}
		case errors.Is(err, sql.ErrNoRows):
			// 版本号不一致，说明在此期间被其他请求修改过
			h.errorResponse(w, r, "请重试")
		default:
			h.internalServerError(w, r, err)
		}
		return
	}

	h.successResponse(w, r, "更新数据集成功", ds)
}

func (h *Handler) DeleteRatingDataset(w http.ResponseWriter, r *http.Request) {
	ds := r.Context().Value(RatingDatasetCtx).(*domain.RatingDataset)

	if err := h.repository.DeleteRatingDataset(ds.ID); err != nil {
		h.internalServerError(w, r, err)
		return
	}

	// 数据集删除后缓存的结果也就没有意义了
	h.evictScheduleResults(r.Context(), ds.ID)

	h.successResponse(w, r, "删除数据集成功", nil)
}
