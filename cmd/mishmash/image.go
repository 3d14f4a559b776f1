package main

import (
	"fmt"
	"strconv"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/franz/mishmash/internal/catalog"
	"github.com/franz/mishmash/internal/util"
)

var imageCmd = &cobra.Command{
	Use:   "image ID...",
	Short: "Inspect or remove artwork rows",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runImage,
}

func init() {
	rootCmd.AddCommand(imageCmd)
	imageCmd.Flags().Bool("remove", false, "delete the image rows")
}

func runImage(cmd *cobra.Command, args []string) error {
	remove, _ := cmd.Flags().GetBool("remove")

	ids := make([]int64, 0, len(args))
	for _, arg := range args {
		id, err := strconv.ParseInt(arg, 10, 64)
		if err != nil || id < 1 {
			return fmt.Errorf("invalid image id: %s", arg)
		}
		ids = append(ids, id)
	}

	store, _, err := openStore(true)
	if err != nil {
		return err
	}
	defer store.Close()

	return store.Transaction(func(sess *catalog.Session) error {
		for _, id := range ids {
			img, err := sess.ImageByID(id)
			if err != nil {
				return err
			}
			if img == nil {
				util.WarnLog("Image %d not found", id)
				continue
			}

			if remove {
				if err := sess.DeleteImage(id); err != nil {
					return err
				}
				util.InfoLog("Deleted image %d", id)
				continue
			}

			fmt.Printf("Image %d: %s %s, %s, md5 %s\n",
				img.ID, img.Role, img.MimeType,
				humanize.Bytes(uint64(img.Size)), img.MD5)
			if img.Description != "" {
				fmt.Printf("   %s\n", img.Description)
			}
		}
		return nil
	})
}
