package domain

import "strings"

// 已登记的模型名
const (
	ModelBachelier = "bachelier"
	ModelDempster  = "dempster"
	ModelMiltersen = "miltersen"
)

// ModelSelection 工厂的选型结果。
// FellBack 为真时 Reason 说明回退原因，调用方负责告警。
type ModelSelection struct {
	Model    PricingModel
	FellBack bool
	Reason   string
}

// ModelFactory 定价模型工厂。
// 注册表封闭：任何未实现或未知的模型名都回退到 Bachelier，从不报错。
type ModelFactory struct {
	cfg BachelierModelConfig
}

// NewModelFactory 创建模型工厂
func NewModelFactory(cfg BachelierModelConfig) *ModelFactory {
	return &ModelFactory{cfg: cfg}
}

// Create 按模型名创建定价模型
func (f *ModelFactory) Create(name string) ModelSelection {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case ModelBachelier, "":
		return ModelSelection{Model: NewBachelierSpreadModel(f.cfg)}
	case ModelDempster:
		return ModelSelection{
			Model:    NewBachelierSpreadModel(f.cfg),
			FellBack: true,
			Reason:   "dempster model not implemented, using bachelier",
		}
	case ModelMiltersen:
		return ModelSelection{
			Model:    NewBachelierSpreadModel(f.cfg),
			FellBack: true,
			Reason:   "miltersen model not implemented, using bachelier",
		}
	default:
		return ModelSelection{
			Model:    NewBachelierSpreadModel(f.cfg),
			FellBack: true,
			Reason:   "unknown pricing model " + name + ", using bachelier",
		}
	}
}
