package dto

type ShortBranchDTO struct {
	ID   uint64 `json:"id"`
	Name string `json:"name"`
	Code string `json:"code"`
}

type ShortSupplierDTO struct {
	ID   uint64 `json:"id"`
	Name string `json:"name"`
}

type ShortUserDTO struct {
	ID       uint64 `json:"id"`
	Username string `json:"username"`
}

type ShortAssetDTO struct {
	ID      uint64 `json:"id"`
	AssetID string `json:"asset_id"`
	Name    string `json:"name"`
	Status  string `json:"current_status"`
}
