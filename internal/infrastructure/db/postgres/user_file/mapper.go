package user_file

import (
	"drive-me-local/internal/domain/user"
	domain "drive-me-local/internal/domain/user_file"
)

func fromDBModel(model *UserFile) *domain.UserFile {
	var uf = &domain.UserFile{
		ID:        domain.ID(model.ID),
		OwnerID:   user.ID(model.OwnerID),
		OwnerName: model.OwnerName,

		FileName:     model.FileName,
		OriginalName: model.OriginalName,
		StorageKey:   model.StorageKey,
		MimeType:     model.MimeType,
		SizeBytes:    model.SizeBytes,

		UploadedAt: model.UploadedAt,
	}

	return uf
}

func fromDBModels(models *UserFiles) domain.UserFiles {
	ufs := make(domain.UserFiles, len(*models))
	for idx, u := range *models {
		ufs[idx] = fromDBModel(u)
	}

	return ufs
}
