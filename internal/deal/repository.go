package deal

import (
	"gorm.io/gorm"
)

type Repository struct {
	DB *gorm.DB
}

func NewRepository(db *gorm.DB) *Repository {
	return &Repository{DB: db}
}

func (r *Repository) Create(d *Deal) error {
	return r.DB.Create(d).Error
}

func (r *Repository) FindByID(id uint) (*Deal, error) {
	var d Deal
	err := r.DB.Preload("CommissionSplits").
		Preload("Payments.Splits").
		Preload("Payments").
		First(&d, id).Error
	if err != nil {
		return nil, err
	}
	return &d, nil
}

// ListAll returns deals in board order: stage column, then position.
func (r *Repository) ListAll() ([]Deal, error) {
	var deals []Deal
	err := r.DB.Order("stage, kanban_position").Find(&deals).Error
	return deals, err
}

func (r *Repository) ListByStage(stage string) ([]Deal, error) {
	var deals []Deal
	err := r.DB.Where("stage = ?", stage).Order("kanban_position").Find(&deals).Error
	return deals, err
}

func (r *Repository) Update(d *Deal) error {
	return r.DB.Save(d).Error
}

func (r *Repository) Delete(id uint) error {
	return r.DB.Delete(&Deal{}, id).Error
}

// ReorderItem is one row of a drag-and-drop board update.
type ReorderItem struct {
	DealID   uint   `json:"dealId"`
	Stage    string `json:"stage"`
	Position int    `json:"position"`
}

// Reorder applies a board rearrangement atomically. Any failing row rolls
// back the whole move, so the board never half-applies a drag.
func (r *Repository) Reorder(items []ReorderItem) error {
	return r.DB.Transaction(func(tx *gorm.DB) error {
		for _, item := range items {
			res := tx.Model(&Deal{}).
				Where("id = ?", item.DealID).
				Updates(map[string]interface{}{
					"stage":           item.Stage,
					"kanban_position": item.Position,
				})
			if res.Error != nil {
				return res.Error
			}
			if res.RowsAffected == 0 {
				return gorm.ErrRecordNotFound
			}
		}
		return nil
	})
}
