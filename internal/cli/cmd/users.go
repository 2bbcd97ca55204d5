package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

var usersCmd = &cobra.Command{
	Use:   "user",
	Short: "Manage users",
}

var userListCmd = &cobra.Command{
	Use:   "list",
	Short: "List users",
	RunE: func(cmd *cobra.Command, args []string) error {
		var resp struct {
			Users []struct {
				Username   string `json:"username"`
				Fullname   string `json:"fullname"`
				Department string `json:"department"`
				Role       string `json:"role"`
			} `json:"users"`
		}
		if err := getJSON("/users", &resp); err != nil {
			return err
		}

		if len(resp.Users) == 0 {
			fmt.Println("No users")
			return nil
		}
		for _, u := range resp.Users {
			fmt.Printf("%-20s %-30s %-15s %s\n", u.Username, u.Fullname, u.Department, u.Role)
		}
		return nil
	},
}

var (
	userFullname   string
	userDepartment string
	userRole       string
	userPassword   string
)

var userAddCmd = &cobra.Command{
	Use:   "add <username>",
	Short: "Create or update a user",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		var resp struct {
			Message string `json:"message"`
		}
		err := postJSON("/users", map[string]string{
			"username":   args[0],
			"fullname":   userFullname,
			"department": userDepartment,
			"role":       userRole,
			"password":   userPassword,
		}, &resp)
		if err != nil {
			return err
		}
		fmt.Println(resp.Message)
		return nil
	},
}

var userRmCmd = &cobra.Command{
	Use:   "rm <username>",
	Short: "Delete a user",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		var resp struct {
			Message string `json:"message"`
		}
		if err := deleteJSON("/users/"+args[0], &resp); err != nil {
			return err
		}
		fmt.Println(resp.Message)
		return nil
	},
}

func init() {
	userAddCmd.Flags().StringVar(&userFullname, "fullname", "", "full name")
	userAddCmd.Flags().StringVar(&userDepartment, "department", "", "department")
	userAddCmd.Flags().StringVar(&userRole, "role", "", "role (engineer or dc)")
	userAddCmd.Flags().StringVar(&userPassword, "password", "", "password")

	usersCmd.AddCommand(userListCmd)
	usersCmd.AddCommand(userAddCmd)
	usersCmd.AddCommand(userRmCmd)
	rootCmd.AddCommand(usersCmd)
}
