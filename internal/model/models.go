package model

// 所有模型的统一导入点
// 用于 AutoMigrate，顺序即建表顺序
var AllModels = []interface{}{
	&FileRecord{},
	&Generation{},
}
