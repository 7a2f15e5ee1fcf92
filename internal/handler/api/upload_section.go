package api

import (
	"errors"
	"fmt"
	"log"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/devmart/media-pipeline-go/internal/port"
	imageSvc "github.com/devmart/media-pipeline-go/internal/usecase/image"
	"github.com/devmart/media-pipeline-go/internal/validation"
)

type UploadSectionImageRequest struct {
	SectionType string `json:"sectionType" validate:"required,lowercase,alphanum,max=64"`
	SectionID   string `json:"sectionId" validate:"required,max=64"`
}

type UploadSectionImageResponse struct {
	Success  bool                        `json:"success"`
	Image    SectionImageResponse        `json:"image"`
	Variants []port.SectionVariantOutput `json:"variants"`
}

type SectionImageResponse struct {
	Src    string `json:"src"`
	Srcset string `json:"srcset"`
	Sizes  string `json:"sizes"`
	Alt    string `json:"alt"`
	Width  int    `json:"width"`
	Height int    `json:"height"`
}

func UploadSectionImageHandler(svc port.SectionImageUploader) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		req := UploadSectionImageRequest{
			SectionType: chi.URLParam(r, "sectionType"),
			SectionID:   chi.URLParam(r, "sectionId"),
		}
		if errs := validation.ValidateStruct(req); errs != nil {
			errsJSON, err := validation.ErrorsToJson(errs)
			if err != nil {
				WriteError(w, http.StatusInternalServerError, "failed to encode validation errors", err)
				return
			}
			RespondRawJSON(w, http.StatusBadRequest, []byte(errsJSON))
			log.Printf("❌  Validation failed: %s", errsJSON)
			return
		}

		// Reject oversized bodies before buffering the multipart form.
		r.Body = http.MaxBytesReader(w, r.Body, imageSvc.MaxSectionUploadSize+4096)

		file, header, err := r.FormFile("file")
		if err != nil {
			var maxErr *http.MaxBytesError
			if errors.As(err, &maxErr) {
				WriteError(w, http.StatusRequestEntityTooLarge, imageSvc.ErrFileTooLarge.Error(), err)
				return
			}
			WriteError(w, http.StatusBadRequest, "a \"file\" form field is required", err)
			return
		}
		defer func() { _ = file.Close() }()

		input := port.UploadSectionImageInput{
			SectionType: req.SectionType,
			SectionID:   req.SectionID,
			FileName:    header.Filename,
			File:        file,
			SizeBytes:   header.Size,
		}
		out, err := svc.UploadSectionImage(r.Context(), input)
		if err != nil {
			switch {
			case errors.Is(err, imageSvc.ErrFileTooLarge):
				WriteError(w, http.StatusRequestEntityTooLarge, err.Error(), nil)
			case errors.Is(err, imageSvc.ErrMimeTypeNotAllowed):
				WriteError(w, http.StatusUnsupportedMediaType, err.Error(), nil)
			default:
				WriteError(w, http.StatusInternalServerError, fmt.Sprintf("could not process image for section #%s", req.SectionID), err)
			}
			return
		}

		resp := UploadSectionImageResponse{
			Success: true,
			Image: SectionImageResponse{
				Src:    out.Image.Src,
				Srcset: out.Image.Srcset,
				Sizes:  out.Image.Sizes,
				Alt:    out.Image.Alt,
				Width:  out.Image.Width,
				Height: out.Image.Height,
			},
			Variants: out.Variants,
		}
		RespondJSON(w, http.StatusOK, resp)
		log.Printf("✅  Successfully published image for section #%s", req.SectionID)
	}
}
