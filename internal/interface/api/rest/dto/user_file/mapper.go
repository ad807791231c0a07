package user_file

import (
	"fmt"

	"drive-me-local/internal/domain/user_file"
)

func ToResponseUserFile(ufDomain user_file.UserFile) UserFile {
	return UserFile{
		ID:           int64(ufDomain.ID),
		OwnerID:      int64(ufDomain.OwnerID),
		Owner:        ufDomain.OwnerName,
		FileName:     ufDomain.FileName,
		OriginalName: ufDomain.OriginalName,
		MimeType:     ufDomain.MimeType,
		SizeBytes:    ufDomain.SizeBytes,
		UploadedAt:   ufDomain.UploadedAt,
		DownloadURL:  fmt.Sprintf("/files/%d/download", ufDomain.ID),
	}
}

func ToResponseUserFiles(ufDomain user_file.UserFiles) UserFiles {
	ufs := make(UserFiles, len(ufDomain))
	for idx, uf := range ufDomain {
		ufs[idx] = ToResponseUserFile(*uf)
	}

	return ufs
}
