package warehouse

import "github.com/go-gota/gota/series"

// Column is a selected column and the gota type it is loaded as.
type Column struct {
	Name string
	Type series.Type
}

// Select is a fixed, parameterless read-only SELECT of some columns of one table.
type Select struct {
	Table   string
	Columns []Column
}

// ColumnNames returns the selected column names in order.
func (s Select) ColumnNames() []string {
	names := make([]string, len(s.Columns))
	for i, c := range s.Columns {
		names[i] = c.Name
	}
	return names
}

func intCol(name string) Column    { return Column{Name: name, Type: series.Int} }
func floatCol(name string) Column  { return Column{Name: name, Type: series.Float} }
func stringCol(name string) Column { return Column{Name: name, Type: series.String} }

// Fixed selects against the AdventureWorks warehouse schema.
var (
	DimProduct = Select{
		Table:   "dimproduct",
		Columns: []Column{intCol("ProductKey"), stringCol("EnglishProductName"), floatCol("StandardCost")},
	}
	DimTime = Select{
		Table:   "dimtime",
		Columns: []Column{intCol("TimeKey"), stringCol("EnglishMonthName")},
	}
	FactInternetSales = Select{
		Table:   "factinternetsales",
		Columns: []Column{intCol("ProductKey"), intCol("OrderDateKey"), floatCol("SalesAmount")},
	}
	DimEmployee = Select{
		Table:   "dimemployee",
		Columns: []Column{intCol("EmployeeKey"), stringCol("DepartmentName"), stringCol("Title")},
	}
	DimGeography = Select{
		Table:   "dimgeography",
		Columns: []Column{intCol("GeographyKey"), stringCol("EnglishCountryRegionName")},
	}
	DimCustomer = Select{
		Table:   "dimcustomer",
		Columns: []Column{intCol("CustomerKey"), stringCol("EnglishEducation"), intCol("GeographyKey")},
	}
	DimProductCategory = Select{
		Table:   "dimproductcategory",
		Columns: []Column{intCol("ProductCategoryKey"), stringCol("EnglishProductCategoryName")},
	}
	DimCurrency = Select{
		Table:   "dimcurrency",
		Columns: []Column{intCol("CurrencyKey"), stringCol("CurrencyName")},
	}
)

// JoinStep joins Table to the base table of a JoinCount on Base.LeftKey = Table.RightKey.
type JoinStep struct {
	Table    string
	LeftKey  string
	RightKey string
}

// JoinCount describes an inner join chain whose row count the database can
// compute independently of the in-memory join.
type JoinCount struct {
	Base  string
	Steps []JoinStep
}

// Tables returns every table touched by the join.
func (j JoinCount) Tables() []string {
	tables := []string{j.Base}
	for _, s := range j.Steps {
		tables = append(tables, s.Table)
	}
	return tables
}
