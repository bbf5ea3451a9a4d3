package domain

var Tables = []interface{}{
	// System
	&SysOprLog{},
	// Catalog
	&Product{},
	&ProductColor{},
	&ProductImage{},
	&Banner{},
}
