package main

import (
	"flag"
	"fmt"
	"log"
	"os"

	"menucost-backend/internal/config"
	"menucost-backend/internal/costing"
	"menucost-backend/internal/database"
)

// Bakım aracı: tüm aktif ürünlerin maliyetini saklı malzeme fiyatlarından
// yeniden hesaplar. Önce sandviçler, sonra menüler; değişiklikler tek
// işlemde yazılır, hata olursa tamamı geri alınır.
func main() {
	dryRun := flag.Bool("dry-run", false, "Değişiklikleri yazmadan raporla")
	flag.Parse()

	cfg := config.Load()
	database.Init(cfg)

	if *dryRun {
		// Dry-run: işlemi başlat, raporu üret, commit etme
		tx := database.DB.Begin()
		engine := costing.NewEngine(costing.NewRepository(tx))
		_, changes, err := engine.RecomputeAll()
		tx.Rollback()
		if err != nil {
			log.Fatalf("Maliyet taraması başarısız: %v", err)
		}
		printReport(changes)
		fmt.Println("(dry-run: hiçbir değişiklik yazılmadı)")
		return
	}

	_, changes, err := costing.RecomputeAllTx(database.DB)
	if err != nil {
		log.Fatalf("Toplu maliyet güncellemesi başarısız: %v", err)
	}
	printReport(changes)
}

func printReport(changes []costing.CostChange) {
	fmt.Fprintf(os.Stdout, "%d ürünün maliyeti değişti\n\n", len(changes))
	if len(changes) == 0 {
		fmt.Println("Tüm maliyetler güncel.")
		return
	}

	fmt.Printf("%-12s %-40s %12s %12s\n", "KOD", "ÜRÜN", "ESKİ", "YENİ")
	for _, ch := range changes {
		fmt.Printf("%-12s %-40s %12s %12s\n",
			ch.ProductCode, ch.ProductName, ch.OldCost.StringFixed(4), ch.NewCost.StringFixed(4))
	}
}
