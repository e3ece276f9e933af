package model

// 配送先住所
// 注文作成時のスナップショットとして orders に JSON で保存する。
type ShippingAddress struct {
	//宛名
	Name string `json:"name"`

	//電話番号
	Phone string `json:"phone"`

	//番地など
	Address string `json:"address"`

	City    string `json:"city"`
	State   string `json:"state"`
	ZipCode string `json:"zip_code"`
	Country string `json:"country"`
}
