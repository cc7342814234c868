package main

import (
	"errors"
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"

	"github.com/usav/inventory-backend/config"
	"github.com/usav/inventory-backend/internal/app/repository"
	"github.com/usav/inventory-backend/internal/app/service"
	"github.com/usav/inventory-backend/internal/db"
	"github.com/usav/inventory-backend/pkg/sku"
	"github.com/xuri/excelize/v2"
)

// Catalog importer. Reads an XLSX export of the product catalog and
// creates families, identities and variants through the service layer
// so identifier generation and validation apply to imported rows too.
//
// Expected columns (first sheet, header row):
//
//	Product ID | Base Name | Type | LCI | Identity Name | Color | Condition | Price

type catalogRow struct {
	productID    int
	baseName     string
	identityType sku.IdentityType
	lci          *int
	identityName string
	colorCode    *string
	condition    *sku.ConditionCode
	price        *float64
}

func main() {
	if len(os.Args) < 2 {
		log.Fatal("Usage: go run cmd/seed/main.go <xlsx_file_path>")
	}

	filePath := os.Args[1]

	cfg, err := config.Load()
	if err != nil {
		log.Fatal("Failed to load config:", err)
	}

	if err := db.Initialize(&cfg.Database); err != nil {
		log.Fatal("Failed to connect to database:", err)
	}
	defer db.Close()

	if err := db.Migrate(); err != nil {
		log.Fatal("Failed to run migrations:", err)
	}

	familyRepo := repository.NewFamilyRepository(db.GetDB())
	identityRepo := repository.NewIdentityRepository(db.GetDB())
	variantRepo := repository.NewVariantRepository(db.GetDB())
	bundleRepo := repository.NewBundleRepository(db.GetDB())

	familyService := service.NewFamilyService(familyRepo)
	identityService := service.NewIdentityService(identityRepo, familyRepo, variantRepo, bundleRepo)
	variantService := service.NewVariantService(variantRepo, identityRepo)

	fmt.Printf("Reading XLSX file: %s\n", filePath)
	rows, err := readCatalogFromXLSX(filePath)
	if err != nil {
		log.Fatal("Failed to read XLSX:", err)
	}

	fmt.Printf("Total catalog rows to import: %d\n", len(rows))

	fmt.Print("Do you want to proceed with the import? (yes/no): ")
	var confirm string
	fmt.Scanln(&confirm)
	if confirm != "yes" && confirm != "y" {
		fmt.Println("Import cancelled.")
		return
	}

	var familiesCreated, identitiesCreated, variantsCreated, skipped int
	for _, row := range rows {
		productID := row.productID
		if _, err := familyService.CreateFamily(service.CreateFamilyInput{
			ProductID: &productID,
			BaseName:  row.baseName,
		}); err == nil {
			familiesCreated++
		} else if !errors.Is(err, service.ErrFamilyExists) {
			log.Printf("family %d: %v", productID, err)
			skipped++
			continue
		}

		identity, err := identityService.CreateIdentity(service.CreateIdentityInput{
			ProductID:    productID,
			IdentityType: row.identityType,
			LCI:          row.lci,
			Name:         row.identityName,
		})
		if err != nil {
			if errors.Is(err, service.ErrIdentityExists) {
				// Re-resolve so variants can still attach to it.
				upisH := sku.GenerateUPISH(productID, row.identityType, row.lci)
				identity, err = identityService.GetIdentityByUPISH(upisH)
			}
			if err != nil {
				log.Printf("identity %d/%s: %v", productID, row.identityType, err)
				skipped++
				continue
			}
		} else {
			identitiesCreated++
		}

		if _, err := variantService.CreateVariant(service.CreateVariantInput{
			IdentityID:    identity.ID,
			ColorCode:     row.colorCode,
			ConditionCode: row.condition,
			Price:         row.price,
		}); err != nil {
			if !errors.Is(err, service.ErrVariantExists) {
				log.Printf("variant for identity %d: %v", identity.ID, err)
			}
			skipped++
			continue
		}
		variantsCreated++
	}

	fmt.Println("Import completed successfully!")
	fmt.Printf("Families: %d, Identities: %d, Variants: %d, Skipped: %d\n",
		familiesCreated, identitiesCreated, variantsCreated, skipped)
}

func readCatalogFromXLSX(filePath string) ([]catalogRow, error) {
	f, err := excelize.OpenFile(filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to open XLSX file: %w", err)
	}
	defer f.Close()

	sheetName := f.GetSheetName(0)
	if sheetName == "" {
		return nil, fmt.Errorf("no sheets found in XLSX file")
	}

	fmt.Printf("Reading sheet: %s\n", sheetName)

	rows, err := f.GetRows(sheetName)
	if err != nil {
		return nil, fmt.Errorf("failed to read rows: %w", err)
	}

	if len(rows) == 0 {
		return nil, fmt.Errorf("no data found in XLSX file")
	}

	var catalog []catalogRow
	skippedCount := 0

	for i, row := range rows {
		if i == 0 {
			fmt.Printf("Headers: %v\n", row)
			continue
		}

		if len(row) < 5 {
			skippedCount++
			continue
		}

		productID, err := strconv.Atoi(strings.TrimSpace(row[0]))
		if err != nil || productID < 1 || productID > sku.ProductIDMax {
			skippedCount++
			continue
		}

		baseName := strings.TrimSpace(row[1])
		identityName := strings.TrimSpace(row[4])
		if baseName == "" || identityName == "" {
			skippedCount++
			continue
		}

		var identityType sku.IdentityType
		switch typeStr := strings.ToUpper(strings.TrimSpace(row[2])); typeStr {
		case "", "BASE", "PRODUCT":
			identityType = sku.TypeBase
		default:
			identityType = sku.IdentityType(typeStr)
		}
		if !sku.ValidType(identityType) {
			skippedCount++
			continue
		}

		entry := catalogRow{
			productID:    productID,
			baseName:     baseName,
			identityType: identityType,
			identityName: identityName,
		}

		if lciStr := strings.TrimSpace(row[3]); lciStr != "" {
			lci, err := strconv.Atoi(lciStr)
			if err != nil || lci < sku.LCIMin || lci > sku.LCIMax {
				skippedCount++
				continue
			}
			entry.lci = &lci
		}

		if len(row) > 5 {
			if color := strings.ToUpper(strings.TrimSpace(row[5])); color != "" {
				entry.colorCode = &color
			}
		}
		if len(row) > 6 {
			// "U" (used) is the default and stays nil.
			if cond := strings.ToUpper(strings.TrimSpace(row[6])); cond == "N" || cond == "R" {
				code := sku.ConditionCode(cond)
				entry.condition = &code
			}
		}
		if len(row) > 7 {
			if priceStr := strings.TrimSpace(row[7]); priceStr != "" {
				price, err := strconv.ParseFloat(priceStr, 64)
				if err != nil || price < 0 {
					skippedCount++
					continue
				}
				entry.price = &price
			}
		}

		catalog = append(catalog, entry)
	}

	if skippedCount > 0 {
		fmt.Printf("Skipped %d malformed rows\n", skippedCount)
	}
	return catalog, nil
}
