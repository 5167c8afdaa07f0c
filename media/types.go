package media

type AssetType string

const (
	AssetTypeCapture   AssetType = "capture"
	AssetTypeAnnotated AssetType = "annotated"
	AssetTypePreview   AssetType = "preview"
	AssetTypeUnknown   AssetType = "unknown"
)
