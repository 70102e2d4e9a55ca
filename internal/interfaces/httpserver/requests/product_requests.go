package requests

// CreateProductRequest is the payload of POST /api/products. The imageKey
// must be a storage key returned by a presign grant.
type CreateProductRequest struct {
	Title    string `json:"title" binding:"required,min=1,max=200"`
	Artist   string `json:"artist" binding:"required,min=1,max=200"`
	ImageKey string `json:"imageKey" binding:"required"`
}

// UpdateProductRequest is the payload of PUT /api/products/:id. An omitted
// imageKey leaves the stored image untouched.
type UpdateProductRequest struct {
	Title    string `json:"title" binding:"required,min=1,max=200"`
	Artist   string `json:"artist" binding:"required,min=1,max=200"`
	ImageKey string `json:"imageKey"`
}

// PresignRequest is the payload of POST /api/presign. Fine-grained
// validation (filename characters, type allow-list, size cap) happens in
// the storage gateway.
type PresignRequest struct {
	FileName string `json:"fileName" binding:"required,max=255"`
	FileType string `json:"fileType" binding:"required"`
	FileSize int64  `json:"fileSize" binding:"required,gt=0"`
}
